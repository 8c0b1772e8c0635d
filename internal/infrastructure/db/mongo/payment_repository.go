package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/psiconecta/booking-system/internal/core/domain"
	"github.com/psiconecta/booking-system/internal/core/ports"
)

const collectionPayments = "payments"

type PaymentRepository struct {
	col *mongo.Collection
}

func NewPaymentRepository(db *mongo.Database) *PaymentRepository {
	return &PaymentRepository{col: db.Collection(collectionPayments)}
}

func (r *PaymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, p)
	return err
}

func (r *PaymentRepository) FindByAppointmentID(ctx context.Context, appointmentID string) (*domain.Payment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var p domain.Payment
	if err := r.col.FindOne(ctx, bson.M{"appointment_id": appointmentID}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("find payment: %w", err)
	}
	return &p, nil
}

// Update applies the non-nil patch fields as a single atomic $set and
// returns the updated payment.
func (r *PaymentRepository) Update(ctx context.Context, id string, patch ports.PaymentPatch) (*domain.Payment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{"updated_at": time.Now().UTC()}
	if patch.Status != nil {
		set["status"] = string(*patch.Status)
	}
	if patch.Amount != nil {
		set["amount"] = *patch.Amount
	}
	if patch.Currency != nil {
		set["currency"] = *patch.Currency
	}
	if patch.PreferenceID != nil {
		set["preference_id"] = *patch.PreferenceID
	}
	if patch.TransactionID != nil {
		set["transaction_id"] = *patch.TransactionID
	}
	if patch.ReceiptURL != nil {
		set["receipt_url"] = *patch.ReceiptURL
	}

	var p domain.Payment
	err := r.col.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("update payment: %w", err)
	}
	return &p, nil
}

func (r *PaymentRepository) ListByAppointmentIDs(ctx context.Context, appointmentIDs []string) ([]*domain.Payment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(
		ctx,
		bson.M{"appointment_id": bson.M{"$in": appointmentIDs}},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer cur.Close(ctx)

	payments := []*domain.Payment{}
	for cur.Next(ctx) {
		var p domain.Payment
		if err := cur.Decode(&p); err != nil {
			return nil, fmt.Errorf("decode payment: %w", err)
		}
		payments = append(payments, &p)
	}
	return payments, cur.Err()
}

// EnsureIndexes creates necessary indexes on the payments collection.
func (r *PaymentRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "appointment_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
