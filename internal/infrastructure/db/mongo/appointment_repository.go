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

const collectionAppointments = "appointments"

type AppointmentRepository struct {
	col *mongo.Collection
}

func NewAppointmentRepository(db *mongo.Database) *AppointmentRepository {
	return &AppointmentRepository{col: db.Collection(collectionAppointments)}
}

func (r *AppointmentRepository) Create(ctx context.Context, a *domain.Appointment) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, a)
	return err
}

func (r *AppointmentRepository) FindByID(ctx context.Context, id string) (*domain.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var a domain.Appointment
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("find appointment: %w", err)
	}
	return &a, nil
}

// Update applies the non-nil patch fields as a single atomic $set and
// returns the updated appointment. Concurrent updates resolve last-write-wins.
func (r *AppointmentRepository) Update(ctx context.Context, id string, patch ports.AppointmentPatch) (*domain.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{"updated_at": time.Now().UTC()}
	if patch.StartTime != nil {
		set["start_time"] = patch.StartTime.UTC()
	}
	if patch.EndTime != nil {
		set["end_time"] = patch.EndTime.UTC()
	}
	if patch.Notes != nil {
		set["notes"] = *patch.Notes
	}
	if patch.Status != nil {
		set["status"] = string(*patch.Status)
	}
	if patch.PaymentStatus != nil {
		set["payment_status"] = string(*patch.PaymentStatus)
	}

	var a domain.Appointment
	err := r.col.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&a)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("update appointment: %w", err)
	}
	return &a, nil
}

func (r *AppointmentRepository) ListByPsychologist(ctx context.Context, psychologistID string) ([]*domain.Appointment, error) {
	return r.list(ctx, bson.M{"psychologist_id": psychologistID})
}

func (r *AppointmentRepository) ListByPatient(ctx context.Context, patientID string) ([]*domain.Appointment, error) {
	return r.list(ctx, bson.M{"patient_id": patientID})
}

func (r *AppointmentRepository) list(ctx context.Context, filter bson.M) ([]*domain.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "start_time", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	defer cur.Close(ctx)

	appts := []*domain.Appointment{}
	for cur.Next(ctx) {
		var a domain.Appointment
		if err := cur.Decode(&a); err != nil {
			return nil, fmt.Errorf("decode appointment: %w", err)
		}
		appts = append(appts, &a)
	}
	return appts, cur.Err()
}

// EnsureIndexes creates necessary indexes on the appointments collection.
func (r *AppointmentRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "psychologist_id", Value: 1}, {Key: "start_time", Value: 1}}},
		{Keys: bson.D{{Key: "patient_id", Value: 1}, {Key: "start_time", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
