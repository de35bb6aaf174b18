package mongostore

import (
	"context"
	"testing"
	"time"

	"github.com/psds-microservice/repair-service/internal/model"
	"github.com/psds-microservice/repair-service/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

const testDB = "repair_test"

func adminDoc(oid primitive.ObjectID, email, role string, created time.Time) bson.D {
	return bson.D{
		{Key: "_id", Value: oid},
		{Key: "email", Value: email},
		{Key: "password", Value: "secret"},
		{Key: "role", Value: role},
		{Key: "created_at", Value: primitive.NewDateTimeFromTime(created)},
		{Key: "updated_at", Value: primitive.NewDateTimeFromTime(created)},
	}
}

func TestFindOldestAdmin(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("sends filter and oldest-first sort", func(mt *mtest.T) {
		s := newStore(mt.Client, testDB)
		oid := primitive.NewObjectID()
		created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, testDB+".admins", mtest.FirstBatch,
			adminDoc(oid, "boss@shop.local", model.RoleAdmin, created)))

		a, err := s.FindOldestAdmin(context.Background(), store.AdminFilter{Email: "boss@shop.local", Role: model.RoleAdmin})
		require.NoError(mt, err)
		assert.Equal(mt, oid.Hex(), a.ID)
		assert.Equal(mt, "boss@shop.local", a.Email)
		assert.True(mt, created.Equal(a.CreatedAt))

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		assert.Equal(mt, "find", evt.CommandName)
		assert.Equal(mt, "admins", evt.Command.Lookup("find").StringValue())

		filter := evt.Command.Lookup("filter").Document()
		assert.Equal(mt, "boss@shop.local", filter.Lookup("email").StringValue())
		assert.Equal(mt, model.RoleAdmin, filter.Lookup("role").StringValue())

		sort, err := evt.Command.Lookup("sort").Document().Elements()
		require.NoError(mt, err)
		require.Len(mt, sort, 2)
		assert.Equal(mt, "created_at", sort[0].Key())
		assert.Equal(mt, int64(1), sort[0].Value().AsInt64())
		assert.Equal(mt, "_id", sort[1].Key())
		assert.Equal(mt, int64(1), sort[1].Value().AsInt64())
		assert.Equal(mt, int64(1), evt.Command.Lookup("limit").AsInt64())
	})

	mt.Run("empty filter matches any record", func(mt *mtest.T) {
		s := newStore(mt.Client, testDB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, testDB+".admins", mtest.FirstBatch,
			adminDoc(primitive.NewObjectID(), "staff@shop.local", "staff", time.Now())))

		a, err := s.FindOldestAdmin(context.Background(), store.AdminFilter{})
		require.NoError(mt, err)
		assert.Equal(mt, "staff", a.Role)

		filter, err := mt.GetStartedEvent().Command.Lookup("filter").Document().Elements()
		require.NoError(mt, err)
		assert.Empty(mt, filter)
	})

	mt.Run("no documents maps to ErrNotFound", func(mt *mtest.T) {
		s := newStore(mt.Client, testDB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, testDB+".admins", mtest.FirstBatch))

		_, err := s.FindOldestAdmin(context.Background(), store.AdminFilter{Role: model.RoleAdmin})
		assert.ErrorIs(mt, err, store.ErrNotFound)
	})
}

func TestGetAdmin_MatchesObjectIDAndStringID(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("hex id", func(mt *mtest.T) {
		s := newStore(mt.Client, testDB)
		oid := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, testDB+".admins", mtest.FirstBatch))

		_, err := s.GetAdmin(context.Background(), oid.Hex())
		assert.ErrorIs(mt, err, store.ErrNotFound)

		in, err := mt.GetStartedEvent().Command.Lookup("filter", "_id", "$in").Array().Values()
		require.NoError(mt, err)
		require.Len(mt, in, 2)
		assert.Equal(mt, oid, in[0].ObjectID())
		assert.Equal(mt, oid.Hex(), in[1].StringValue())
	})

	mt.Run("non-hex id is matched as a string", func(mt *mtest.T) {
		s := newStore(mt.Client, testDB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, testDB+".admins", mtest.FirstBatch))

		_, err := s.GetAdmin(context.Background(), "legacy-id")
		assert.ErrorIs(mt, err, store.ErrNotFound)
		assert.Equal(mt, "legacy-id", mt.GetStartedEvent().Command.Lookup("filter", "_id").StringValue())
	})
}

func TestCreateAdmin_StoresObjectID(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("insert", func(mt *mtest.T) {
		s := newStore(mt.Client, testDB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		a := &model.Admin{Email: "new@shop.local", Password: "hash", Role: model.RoleAdmin}
		require.NoError(mt, s.CreateAdmin(context.Background(), a))
		require.True(mt, s.ValidID(a.ID))
		assert.False(mt, a.CreatedAt.IsZero())

		evt := mt.GetStartedEvent()
		assert.Equal(mt, "insert", evt.CommandName)
		docs, err := evt.Command.Lookup("documents").Array().Values()
		require.NoError(mt, err)
		require.Len(mt, docs, 1)
		doc := docs[0].Document()
		assert.Equal(mt, bson.TypeObjectID, doc.Lookup("_id").Type)
		assert.Equal(mt, a.ID, doc.Lookup("_id").ObjectID().Hex())
		assert.Equal(mt, "new@shop.local", doc.Lookup("email").StringValue())
	})
}

func TestUpdateAdmin(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("sets changes and updated_at", func(mt *mtest.T) {
		s := newStore(mt.Client, testDB)
		oid := primitive.NewObjectID()
		login := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
		updated := append(adminDoc(oid, "boss@shop.local", model.RoleAdmin, login),
			bson.E{Key: "last_login_at", Value: primitive.NewDateTimeFromTime(login)})
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "value", Value: updated}})

		a, err := s.UpdateAdmin(context.Background(), oid.Hex(), store.Changes{"last_login_at": login})
		require.NoError(mt, err)
		require.NotNil(mt, a.LastLoginAt)
		assert.True(mt, login.Equal(*a.LastLoginAt))

		evt := mt.GetStartedEvent()
		assert.Equal(mt, "findAndModify", evt.CommandName)
		assert.True(mt, evt.Command.Lookup("new").Boolean())
		set := evt.Command.Lookup("update", "$set").Document()
		assert.True(mt, login.Equal(set.Lookup("last_login_at").Time()))
		_, ok := set.Lookup("updated_at").DateTimeOK()
		assert.True(mt, ok)
	})

	mt.Run("missing record maps to ErrNotFound", func(mt *mtest.T) {
		s := newStore(mt.Client, testDB)
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "value", Value: nil}})

		_, err := s.UpdateAdmin(context.Background(), primitive.NewObjectID().Hex(), store.Changes{"name": "x"})
		assert.ErrorIs(mt, err, store.ErrNotFound)
	})
}

func TestOrders(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("list sends filters and newest-first sort", func(mt *mtest.T) {
		s := newStore(mt.Client, testDB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, testDB+".orders", mtest.FirstBatch,
			bson.D{
				{Key: "_id", Value: "3762112304"},
				{Key: "customer_name", Value: "Ann"},
				{Key: "status", Value: "ready"},
				{Key: "scheduled_time", Value: bson.D{{Key: "hour", Value: 10}, {Key: "minute", Value: 30}}},
			}))

		items, err := s.ListOrders(context.Background(), store.OrderFilter{Status: model.OrderStatusReady, Technician: "Bob"})
		require.NoError(mt, err)
		require.Len(mt, items, 1)
		assert.Equal(mt, "3762112304", items[0].ID)
		assert.Equal(mt, model.OrderStatusReady, items[0].Status)
		require.NotNil(mt, items[0].ScheduledTime)
		assert.Equal(mt, model.ScheduledTime{Hour: 10, Minute: 30}, *items[0].ScheduledTime)

		evt := mt.GetStartedEvent()
		filter := evt.Command.Lookup("filter").Document()
		assert.Equal(mt, "ready", filter.Lookup("status").StringValue())
		assert.Equal(mt, "Bob", filter.Lookup("technician").StringValue())
		assert.Equal(mt, int64(-1), evt.Command.Lookup("sort", "created_at").AsInt64())
	})

	mt.Run("order ids are matched as strings", func(mt *mtest.T) {
		s := newStore(mt.Client, testDB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, testDB+".orders", mtest.FirstBatch))

		_, err := s.GetOrder(context.Background(), "3762112304")
		assert.ErrorIs(mt, err, store.ErrNotFound)
		assert.Equal(mt, "3762112304", mt.GetStartedEvent().Command.Lookup("filter", "_id").StringValue())
	})

	mt.Run("delete of missing order maps to ErrNotFound", func(mt *mtest.T) {
		s := newStore(mt.Client, testDB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))

		assert.ErrorIs(mt, s.DeleteOrder(context.Background(), "3762112304"), store.ErrNotFound)
	})
}

func TestValidID(t *testing.T) {
	s := &Store{}
	assert.True(t, s.ValidID(primitive.NewObjectID().Hex()))
	assert.False(t, s.ValidID("not-an-object-id"))
	assert.False(t, s.ValidID(""))
}
