package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/arigopay/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	usersCollection        = "users"
	transactionsCollection = "transactions"
)

// ErrSettlementInFlight is returned when the flip matched nothing yet the
// reference still reads as pending inside the same transaction. The provider
// retry settles it.
var ErrSettlementInFlight = errors.New("settlement in flight for reference")

type mongoTransaction struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Reference string             `bson:"reference"`
	UserID    primitive.ObjectID `bson:"userId"`
	Type      string             `bson:"type"`
	Status    string             `bson:"status"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
	SettledAt *time.Time         `bson:"settledAt,omitempty"`
}

func (t mongoTransaction) model() *models.Transaction {
	return &models.Transaction{
		ID:        t.ID.Hex(),
		Reference: t.Reference,
		UserID:    t.UserID.Hex(),
		Type:      t.Type,
		Status:    t.Status,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
		SettledAt: t.SettledAt,
	}
}

type mongoUser struct {
	ID                primitive.ObjectID `bson:"_id,omitempty"`
	Email             string             `bson:"email"`
	FirstName         string             `bson:"firstName"`
	LastName          string             `bson:"lastName"`
	Balance           float64            `bson:"balance"`
	AuthorizationCode string             `bson:"authorizationCode,omitempty"`
	CreatedAt         time.Time          `bson:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt"`
}

func (u mongoUser) model() *models.User {
	return &models.User{
		ID:                u.ID.Hex(),
		Email:             u.Email,
		FirstName:         u.FirstName,
		LastName:          u.LastName,
		Balance:           u.Balance,
		AuthorizationCode: u.AuthorizationCode,
		CreatedAt:         u.CreatedAt,
		UpdatedAt:         u.UpdatedAt,
	}
}

// MongoStore settles against a MongoDB replica set. The pending -> completed
// flip and the owner's $inc run in one multi-document transaction, so either
// both are committed or neither is.
type MongoStore struct {
	client       *mongo.Client
	transactions *mongo.Collection
	users        *mongo.Collection
	now          func() time.Time
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{
		client:       db.Client(),
		transactions: db.Collection(transactionsCollection),
		users:        db.Collection(usersCollection),
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// EnsureIndexes creates the reference uniqueness constraint the settlement
// guard depends on.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.transactions.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "reference", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("create transaction indexes: %w", err)
	}

	_, err = s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create user indexes: %w", err)
	}
	return nil
}

func (s *MongoStore) Settle(ctx context.Context, st models.Settlement) (*models.SettlementResult, error) {
	session, err := s.client.StartSession()
	if err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	res, err := session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return s.settle(sc, st)
	})
	if err != nil {
		return nil, err
	}
	return res.(*models.SettlementResult), nil
}

func (s *MongoStore) settle(ctx mongo.SessionContext, st models.Settlement) (*models.SettlementResult, error) {
	now := s.now()

	var before mongoTransaction
	err := s.transactions.FindOneAndUpdate(ctx,
		bson.M{"reference": st.Reference, "status": models.TransactionStatusPending},
		bson.M{"$set": bson.M{
			"status":    models.TransactionStatusCompleted,
			"settledAt": now,
			"updatedAt": now,
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.Before),
	).Decode(&before)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return s.classify(ctx, st.Reference)
	}
	if err != nil {
		return nil, fmt.Errorf("complete transaction %s: %w", st.Reference, err)
	}

	set := bson.M{"updatedAt": now}
	if st.AuthorizationCode != "" {
		set["authorizationCode"] = st.AuthorizationCode
	}

	// A missing owner aborts the transaction, which also undoes the flip.
	var owner mongoUser
	err = s.users.FindOneAndUpdate(ctx,
		bson.M{"_id": before.UserID},
		bson.M{
			"$inc": bson.M{"balance": st.SignedAmountMajor()},
			"$set": set,
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&owner)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("owner %s of transaction %s: %w", before.UserID.Hex(), st.Reference, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("update balance for %s: %w", before.UserID.Hex(), err)
	}

	return &models.SettlementResult{
		Outcome:     models.OutcomeApplied,
		PriorStatus: before.Status,
		UserID:      before.UserID.Hex(),
		Balance:     owner.Balance,
	}, nil
}

// classify explains why the conditional flip matched nothing.
func (s *MongoStore) classify(ctx context.Context, reference string) (*models.SettlementResult, error) {
	var current mongoTransaction
	err := s.transactions.FindOne(ctx, bson.M{"reference": reference}).Decode(&current)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return &models.SettlementResult{Outcome: models.OutcomeNotFound}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetch transaction %s: %w", reference, err)
	}

	result := &models.SettlementResult{
		PriorStatus: current.Status,
		UserID:      current.UserID.Hex(),
	}
	switch {
	case current.model().IsCompleted():
		result.Outcome = models.OutcomeAlreadySettled
	case current.Status == models.TransactionStatusPending:
		return nil, fmt.Errorf("%w %s", ErrSettlementInFlight, reference)
	default:
		result.Outcome = models.OutcomeSkipped
	}
	return result, nil
}

func (s *MongoStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, models.ErrNotFound
	}

	var user mongoUser
	err = s.users.FindOne(ctx, bson.M{"_id": oid}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetch user %s: %w", id, err)
	}
	return user.model(), nil
}

func (s *MongoStore) GetTransaction(ctx context.Context, reference string) (*models.Transaction, error) {
	var tx mongoTransaction
	err := s.transactions.FindOne(ctx, bson.M{"reference": reference}).Decode(&tx)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetch transaction %s: %w", reference, err)
	}
	return tx.model(), nil
}
