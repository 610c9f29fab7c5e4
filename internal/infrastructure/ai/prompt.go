package ai

import "fmt"

// loyaltyPrompt instrucciones comunes a ambos proveedores. El análisis se pide en markdown.
const loyaltyPrompt = `You are an expert business analyst for a customer loyalty program.
Analyze the following customer data and answer the user's question.
Provide a concise, insightful, and easy-to-understand analysis.
Format your response with markdown.`

func userMessage(customersJSON, question string) string {
	return fmt.Sprintf("CUSTOMER DATA (JSON):\n%s\n\nUSER QUESTION: %q", customersJSON, question)
}

const maxResponseBytes = 256 * 1024
