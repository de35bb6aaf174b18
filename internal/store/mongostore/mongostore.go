// Package mongostore — реализация store поверх MongoDB.
// Заказы хранятся с _id равным номеру заказа, техники и администраторы с
// _id типа ObjectID; в модели id всегда hex-строка.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/psds-microservice/repair-service/internal/model"
	"github.com/psds-microservice/repair-service/internal/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	collOrders      = "orders"
	collTechnicians = "technicians"
	collAdmins      = "admins"
)

type Store struct {
	client      *mongo.Client
	orders      *mongo.Collection
	technicians *mongo.Collection
	admins      *mongo.Collection
}

var _ store.Store = (*Store)(nil)

// Connect подключается к MongoDB и создаёт индексы.
func Connect(ctx context.Context, uri, database string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	s := newStore(client, database)
	if err := s.Ping(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo indexes: %w", err)
	}
	return s, nil
}

func newStore(client *mongo.Client, database string) *Store {
	db := client.Database(database)
	return &Store{
		client:      client,
		orders:      db.Collection(collOrders),
		technicians: db.Collection(collTechnicians),
		admins:      db.Collection(collAdmins),
	}
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	if _, err := s.orders.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	}); err != nil {
		return err
	}
	if _, err := s.technicians.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "created_at", Value: -1}},
	}); err != nil {
		return err
	}
	_, err := s.admins.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}},
		{Keys: bson.D{{Key: "role", Value: 1}, {Key: "created_at", Value: 1}}},
	})
	return err
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func (s *Store) ValidID(id string) bool {
	return primitive.IsValidObjectID(id)
}

// now — BSON хранит время с точностью до миллисекунды.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return store.ErrNotFound
	}
	return err
}

func setDoc(changes store.Changes) bson.M {
	set := bson.M{"updated_at": now()}
	for k, v := range changes {
		set[k] = v
	}
	return bson.M{"$set": set}
}

var returnAfter = options.FindOneAndUpdate().SetReturnDocument(options.After)

func findOne[T any](ctx context.Context, c *mongo.Collection, filter interface{}, opts ...*options.FindOneOptions) (*T, error) {
	var out T
	if err := c.FindOne(ctx, filter, opts...).Decode(&out); err != nil {
		return nil, notFound(err)
	}
	return &out, nil
}

// byID — фильтр по номеру заказа.
func byID(id string) bson.M {
	return bson.M{"_id": id}
}

// byObjectID — фильтр для техников и администраторов. Записи, у которых _id
// сохранён строкой, тоже находятся.
func byObjectID(id string) bson.M {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return bson.M{"_id": id}
	}
	return bson.M{"_id": bson.M{"$in": bson.A{oid, id}}}
}

// insertWithObjectID вставляет документ, записывая hex-id как ObjectID.
func insertWithObjectID(ctx context.Context, c *mongo.Collection, v interface{}, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		_, err = c.InsertOne(ctx, v)
		return err
	}
	raw, err := bson.Marshal(v)
	if err != nil {
		return err
	}
	var doc bson.D
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return err
	}
	for i := range doc {
		if doc[i].Key == "_id" {
			doc[i].Value = oid
		}
	}
	_, err = c.InsertOne(ctx, doc)
	return err
}

func updateOne[T any](ctx context.Context, c *mongo.Collection, filter bson.M, changes store.Changes) (*T, error) {
	var out T
	if err := c.FindOneAndUpdate(ctx, filter, setDoc(changes), returnAfter).Decode(&out); err != nil {
		return nil, notFound(err)
	}
	return &out, nil
}

func deleteOne(ctx context.Context, c *mongo.Collection, filter bson.M) error {
	res, err := c.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func newestFirst() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
}

// --- orders ---

func (s *Store) CreateOrder(ctx context.Context, o *model.Order) error {
	ts := now()
	o.CreatedAt, o.UpdatedAt = ts, ts
	_, err := s.orders.InsertOne(ctx, o)
	return err
}

func (s *Store) GetOrder(ctx context.Context, id string) (*model.Order, error) {
	return findOne[model.Order](ctx, s.orders, byID(id))
}

func (s *Store) ListOrders(ctx context.Context, filter store.OrderFilter) ([]model.Order, error) {
	q := bson.M{}
	if filter.Status != "" {
		q["status"] = filter.Status
	}
	if filter.Technician != "" {
		q["technician"] = filter.Technician
	}
	cur, err := s.orders.Find(ctx, q, newestFirst())
	if err != nil {
		return nil, err
	}
	items := []model.Order{}
	if err := cur.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) UpdateOrder(ctx context.Context, id string, changes store.Changes) (*model.Order, error) {
	return updateOne[model.Order](ctx, s.orders, byID(id), changes)
}

func (s *Store) DeleteOrder(ctx context.Context, id string) error {
	return deleteOne(ctx, s.orders, byID(id))
}

// --- technicians ---

func (s *Store) CreateTechnician(ctx context.Context, t *model.Technician) error {
	if t.ID == "" {
		t.ID = primitive.NewObjectID().Hex()
	}
	ts := now()
	t.CreatedAt, t.UpdatedAt = ts, ts
	return insertWithObjectID(ctx, s.technicians, t, t.ID)
}

func (s *Store) GetTechnician(ctx context.Context, id string) (*model.Technician, error) {
	return findOne[model.Technician](ctx, s.technicians, byObjectID(id))
}

func (s *Store) ListTechnicians(ctx context.Context) ([]model.Technician, error) {
	cur, err := s.technicians.Find(ctx, bson.M{}, newestFirst())
	if err != nil {
		return nil, err
	}
	items := []model.Technician{}
	if err := cur.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) UpdateTechnician(ctx context.Context, id string, changes store.Changes) (*model.Technician, error) {
	return updateOne[model.Technician](ctx, s.technicians, byObjectID(id), changes)
}

func (s *Store) DeleteTechnician(ctx context.Context, id string) error {
	return deleteOne(ctx, s.technicians, byObjectID(id))
}

// --- admins ---

func (s *Store) GetAdmin(ctx context.Context, id string) (*model.Admin, error) {
	return findOne[model.Admin](ctx, s.admins, byObjectID(id))
}

func (s *Store) FindOldestAdmin(ctx context.Context, filter store.AdminFilter) (*model.Admin, error) {
	q := bson.M{}
	if filter.Email != "" {
		q["email"] = filter.Email
	}
	if filter.Role != "" {
		q["role"] = filter.Role
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	return findOne[model.Admin](ctx, s.admins, q, opts)
}

func (s *Store) CreateAdmin(ctx context.Context, a *model.Admin) error {
	if a.ID == "" {
		a.ID = primitive.NewObjectID().Hex()
	}
	ts := now()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = ts
	}
	a.UpdatedAt = ts
	return insertWithObjectID(ctx, s.admins, a, a.ID)
}

func (s *Store) UpdateAdmin(ctx context.Context, id string, changes store.Changes) (*model.Admin, error) {
	return updateOne[model.Admin](ctx, s.admins, byObjectID(id), changes)
}
