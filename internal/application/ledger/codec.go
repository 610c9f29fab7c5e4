package ledger

import (
	"encoding/json"
	"fmt"

	"github.com/jhoicas/payloop-api/internal/domain/entity"
)

// Los tres blobs se guardan como JSON con las mismas claves que usaba la aplicación web.

func encodeCustomers(list []*entity.Customer) ([]byte, error) {
	if list == nil {
		list = []*entity.Customer{}
	}
	return json.Marshal(list)
}

func decodeCustomers(raw []byte) ([]*entity.Customer, error) {
	var list []*entity.Customer
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("decode loyaltyDB: %w", err)
	}
	for _, c := range list {
		if c == nil || c.Mobile == "" {
			return nil, fmt.Errorf("decode loyaltyDB: cliente sin móvil")
		}
		if c.History == nil {
			c.History = []entity.HistoryEntry{}
		}
	}
	return list, nil
}

func encodeSettings(s entity.Settings) ([]byte, error) {
	return json.Marshal(s)
}

func decodeSettings(raw []byte) (entity.Settings, error) {
	var s entity.Settings
	if err := json.Unmarshal(raw, &s); err != nil {
		return entity.Settings{}, fmt.Errorf("decode loyaltySettings: %w", err)
	}
	return s, nil
}

func encodeNotifications(list []entity.NotificationLog) ([]byte, error) {
	if list == nil {
		list = []entity.NotificationLog{}
	}
	return json.Marshal(list)
}

func decodeNotifications(raw []byte) ([]entity.NotificationLog, error) {
	var list []entity.NotificationLog
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("decode smsLogs: %w", err)
	}
	return list, nil
}
