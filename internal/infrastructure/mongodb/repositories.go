package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jhoicas/payloop-api/internal/domain"
	"github.com/jhoicas/payloop-api/internal/domain/entity"
	"github.com/jhoicas/payloop-api/internal/domain/repository"
)

var (
	_ repository.BlobRepository  = (*BlobRepository)(nil)
	_ repository.AuditRepository = (*AuditRepository)(nil)
)

// BlobRepository blobs como documentos {_id: clave, value: JSON}.
// Si sess no es nil todas las operaciones corren dentro de esa sesión.
type BlobRepository struct {
	coll *mongo.Collection
	sess mongo.Session
}

type blobDoc struct {
	Key       string    `bson:"_id"`
	Value     string    `bson:"value"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// NewBlobRepository construye el repositorio sobre la base del cliente.
func NewBlobRepository(db *mongo.Database, sess mongo.Session) *BlobRepository {
	return &BlobRepository{coll: db.Collection(blobsCollection), sess: sess}
}

// Get devuelve nil, nil si la clave no existe.
func (r *BlobRepository) Get(ctx context.Context, key string) ([]byte, error) {
	var doc blobDoc
	err := r.coll.FindOne(bind(ctx, r.sess), bson.M{"_id": key}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("get blob %s: %w", key, err)
	}
	return []byte(doc.Value), nil
}

// Put inserta o reemplaza el blob completo.
func (r *BlobRepository) Put(ctx context.Context, key string, value []byte) error {
	doc := blobDoc{Key: key, Value: string(value), UpdatedAt: time.Now().UTC()}
	_, err := r.coll.ReplaceOne(bind(ctx, r.sess), bson.M{"_id": key}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("put blob %s: %w", key, err)
	}
	return nil
}

// AuditRepository diario de liquidaciones. Los montos se guardan como string decimal exacto.
type AuditRepository struct {
	coll *mongo.Collection
	sess mongo.Session
}

type auditDoc struct {
	ID              string    `bson:"_id"`
	Mobile          string    `bson:"mobile"`
	NewCustomer     bool      `bson:"newCustomer"`
	BillAmount      string    `bson:"billAmount"`
	AmountTendered  string    `bson:"amountTendered"`
	RedeemPoints    bool      `bson:"redeemPoints"`
	EffectiveTier   string    `bson:"effectiveTier"`
	DiscountPercent string    `bson:"discountPercent"`
	TierDiscount    string    `bson:"tierDiscount"`
	PointsRedeemed  string    `bson:"pointsRedeemed"`
	FinalBill       string    `bson:"finalBill"`
	NetPoints       int64     `bson:"netPoints"`
	PointsAfter     int64     `bson:"pointsAfter"`
	LedgerVersion   int64     `bson:"ledgerVersion"`
	CreatedAt       time.Time `bson:"createdAt"`
}

// NewAuditRepository construye el repositorio sobre la base del cliente.
func NewAuditRepository(db *mongo.Database, sess mongo.Session) *AuditRepository {
	return &AuditRepository{coll: db.Collection(auditCollection), sess: sess}
}

// Append inserta un asiento. Un id repetido devuelve *domain.AuditRejectedError que envuelve domain.ErrDuplicate.
func (r *AuditRepository) Append(ctx context.Context, a *entity.SettlementAudit) error {
	if _, err := r.coll.InsertOne(bind(ctx, r.sess), toAuditDoc(a)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.NewAuditRejectedError(a.ID, domain.ErrDuplicate)
		}
		return fmt.Errorf("insert settlement_audit: %w", err)
	}
	return nil
}

// ListByMobile asientos del cliente, más reciente primero.
func (r *AuditRepository) ListByMobile(ctx context.Context, mobile string, limit int) ([]*entity.SettlementAudit, error) {
	if limit <= 0 {
		limit = 50
	}
	opts := options.Find().SetSort(bson.M{"createdAt": -1}).SetLimit(int64(limit))
	ctx = bind(ctx, r.sess)
	cursor, err := r.coll.Find(ctx, bson.M{"mobile": mobile}, opts)
	if err != nil {
		return nil, fmt.Errorf("list settlement_audit: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []auditDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode settlement_audit: %w", err)
	}
	out := make([]*entity.SettlementAudit, 0, len(docs))
	for _, d := range docs {
		a, err := fromAuditDoc(d)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

func toAuditDoc(a *entity.SettlementAudit) auditDoc {
	return auditDoc{
		ID:              a.ID,
		Mobile:          a.Mobile,
		NewCustomer:     a.NewCustomer,
		BillAmount:      a.BillAmount.String(),
		AmountTendered:  a.AmountTendered.String(),
		RedeemPoints:    a.RedeemPoints,
		EffectiveTier:   string(a.EffectiveTier),
		DiscountPercent: a.DiscountPercent.String(),
		TierDiscount:    a.TierDiscount.String(),
		PointsRedeemed:  a.PointsRedeemed.String(),
		FinalBill:       a.FinalBill.String(),
		NetPoints:       a.NetPoints,
		PointsAfter:     a.PointsAfter,
		LedgerVersion:   int64(a.LedgerVersion),
		CreatedAt:       a.CreatedAt,
	}
}

func fromAuditDoc(d auditDoc) (*entity.SettlementAudit, error) {
	amounts := make([]decimal.Decimal, 6)
	for i, raw := range []string{d.BillAmount, d.AmountTendered, d.DiscountPercent, d.TierDiscount, d.PointsRedeemed, d.FinalBill} {
		v, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("settlement_audit %s: monto inválido %q: %w", d.ID, raw, err)
		}
		amounts[i] = v
	}
	return &entity.SettlementAudit{
		ID:              d.ID,
		Mobile:          d.Mobile,
		NewCustomer:     d.NewCustomer,
		BillAmount:      amounts[0],
		AmountTendered:  amounts[1],
		RedeemPoints:    d.RedeemPoints,
		EffectiveTier:   entity.Tier(d.EffectiveTier),
		DiscountPercent: amounts[2],
		TierDiscount:    amounts[3],
		PointsRedeemed:  amounts[4],
		FinalBill:       amounts[5],
		NetPoints:       d.NetPoints,
		PointsAfter:     d.PointsAfter,
		LedgerVersion:   uint64(d.LedgerVersion),
		CreatedAt:       d.CreatedAt,
	}, nil
}

// bind ata ctx a la sesión de la transacción en curso, si la hay.
func bind(ctx context.Context, sess mongo.Session) context.Context {
	if sess == nil {
		return ctx
	}
	return mongo.NewSessionContext(ctx, sess)
}
