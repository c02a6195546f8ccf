package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/anybirth-inc/josetsu/internal/core/domain"
)

const collectionCustomers = "customers"

type CustomerRepository struct {
	col *mongo.Collection
}

func NewCustomerRepository(db *mongo.Database) *CustomerRepository {
	return &CustomerRepository{col: db.Collection(collectionCustomers)}
}

// Insert stores a new customer document.
func (r *CustomerRepository) Insert(ctx context.Context, c *domain.Customer) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, c)
	return err
}

// FindByID retrieves a customer by identifier.
func (r *CustomerRepository) FindByID(ctx context.Context, id string) (*domain.Customer, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var c domain.Customer
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&c)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCustomerNotFound
		}
		return nil, err
	}
	return &c, nil
}

// FindAll returns every customer document in insertion order.
func (r *CustomerRepository) FindAll(ctx context.Context) ([]domain.Customer, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []domain.Customer
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Replace overwrites the whole document.
func (r *CustomerRepository) Replace(ctx context.Context, c *domain.Customer, callerID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.ReplaceOne(ctx, ownerScopedFilter(c.ID, callerID), c)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrCustomerNotFound
	}
	return nil
}

// Delete removes the document permanently.
func (r *CustomerRepository) Delete(ctx context.Context, id string, callerID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, ownerScopedFilter(id, callerID))
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrCustomerNotFound
	}
	return nil
}

// ownerScopedFilter ports the hosted database's row-level update/delete
// policy. As written there, the policy subquery matches the row's own id
// rather than a caller-owned column, so the filter reduces to the id match
// and any authenticated caller passes. Ported behaviour, not intended
// semantics; callerID is kept in the signature so a real owner column can be
// bound once the requirement is confirmed.
func ownerScopedFilter(id string, callerID string) bson.M {
	_ = callerID
	return bson.M{"_id": id}
}

// EnsureIndexes creates necessary indexes on the customers collection.
func (r *CustomerRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "name", Value: 1}}},
		{Keys: bson.D{{Key: "postal_code", Value: 1}}},
		{Keys: bson.D{{Key: "contract_tier", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
