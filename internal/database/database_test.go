package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/protomem/charge-scheduler/internal/kvs"
	"github.com/protomem/charge-scheduler/internal/model"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := New(context.Background(), discardLogger(), Options{
		Driver:      DriverSQLite,
		DSN:         filepath.Join(t.TempDir(), "schedules.db"),
		Automigrate: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return db
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func insertUser(t *testing.T, db *DB, username string) model.ID {
	t.Helper()

	id, err := NewUserDAO(discardLogger(), db).Insert(context.Background(), InsertUserDTO{
		Username: username,
		Password: "secret",
	})
	require.NoError(t, err)

	return id
}

func timeSchedule(description, start, end string) model.ScheduleInput {
	return model.ScheduleInput{
		Description: description,
		Days:        model.Days{time.Monday, time.Tuesday},
		Variant:     model.TimeWindow{Start: start, End: end},
	}
}

func TestNew_MigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schedules.db")
	opts := Options{Driver: DriverSQLite, DSN: path, Automigrate: true}

	first, err := New(context.Background(), discardLogger(), opts)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := New(context.Background(), discardLogger(), opts)
	require.NoError(t, err)
	require.NoError(t, second.Close())

	_, err = New(context.Background(), discardLogger(), Options{Driver: "mysql"})
	assert.True(t, errors.Is(err, ErrUnknownDriver))
}

func TestUserDAO_InsertAndLookup(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	dao := NewUserDAO(discardLogger(), db)

	id, err := dao.Insert(ctx, InsertUserDTO{Username: "alice", Password: "pw"})
	require.NoError(t, err)

	_, err = dao.Insert(ctx, InsertUserDTO{Username: "alice", Password: "other"})
	assert.True(t, errors.Is(err, model.ErrExists), "got %v", err)

	_, err = dao.Insert(ctx, InsertUserDTO{Username: "Alice", Password: "pw"})
	assert.NoError(t, err, "usernames are case-sensitive")

	user, err := dao.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, model.User{ID: id, Username: "alice", Password: "pw"}, user)

	_, err = dao.GetByUsername(ctx, "bob")
	assert.True(t, errors.Is(err, model.ErrNotFound))

	exists, err := dao.Exists(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = dao.Exists(ctx, "bob")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestScheduleDAO_RoundTrip(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	dao := NewScheduleDAO(discardLogger(), db)
	userID := insertUser(t, db, "alice")

	inputs := []model.ScheduleInput{
		timeSchedule("Off-peak", "01:00", "05:30"),
		{
			Description: "Morning commute",
			Days:        model.Days{time.Monday, time.Friday},
			Variant:     model.ChargeLevel{ReadyBy: "07:30", Level: 80},
		},
		{
			Description: "Road trip",
			Days:        model.Days{time.Saturday},
			Variant:     model.Mileage{ReadyBy: "06:00", Miles: 250},
		},
	}

	for _, in := range inputs {
		id, err := dao.Insert(ctx, userID, in)
		require.NoError(t, err)

		got, err := dao.Get(ctx, id, userID)
		require.NoError(t, err)
		assert.Equal(t, model.Schedule{ID: id, UserID: userID, ScheduleInput: in}, got)
	}
}

func TestScheduleDAO_WritesNullForUnownedColumns(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	dao := NewScheduleDAO(discardLogger(), db)
	userID := insertUser(t, db, "alice")

	id, err := dao.Insert(ctx, userID, timeSchedule("Night", "22:00", "23:30"))
	require.NoError(t, err)

	err = dao.Update(ctx, id, userID, model.ScheduleInput{
		Description: "Trip",
		Days:        model.Days{time.Sunday},
		Variant:     model.Mileage{ReadyBy: "08:00", Miles: 120},
	})
	require.NoError(t, err)

	var raw struct {
		Type               int            `db:"type"`
		StartTime          sql.NullString `db:"start_time"`
		EndTime            sql.NullString `db:"end_time"`
		ReadyBy            sql.NullString `db:"ready_by"`
		DesiredChargeLevel sql.NullInt64  `db:"desired_charge_level"`
		DesiredMileage     sql.NullInt64  `db:"desired_mileage"`
	}
	err = db.GetContext(ctx, &raw, `
		SELECT type, start_time, end_time, ready_by, desired_charge_level, desired_mileage
		FROM schedules WHERE id = ?`, id)
	require.NoError(t, err)

	assert.Equal(t, int(model.ScheduleTypeMileage), raw.Type)
	assert.False(t, raw.StartTime.Valid)
	assert.False(t, raw.EndTime.Valid)
	assert.False(t, raw.DesiredChargeLevel.Valid)
	assert.Equal(t, sql.NullString{String: "08:00", Valid: true}, raw.ReadyBy)
	assert.Equal(t, sql.NullInt64{Int64: 120, Valid: true}, raw.DesiredMileage)
}

func TestScheduleDAO_ScopedByUser(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	dao := NewScheduleDAO(discardLogger(), db)
	alice := insertUser(t, db, "alice")
	bob := insertUser(t, db, "bob")

	id, err := dao.Insert(ctx, alice, timeSchedule("Alice's", "01:00", "02:00"))
	require.NoError(t, err)

	_, err = dao.Get(ctx, id, bob)
	assert.True(t, errors.Is(err, model.ErrNotFound))

	err = dao.Update(ctx, id, bob, timeSchedule("Hijacked", "03:00", "04:00"))
	assert.True(t, errors.Is(err, model.ErrNotFound))

	err = dao.Delete(ctx, id, bob)
	assert.True(t, errors.Is(err, model.ErrNotFound))

	got, err := dao.Get(ctx, id, alice)
	require.NoError(t, err)
	assert.Equal(t, "Alice's", got.Description)

	schedules, err := dao.FindByUser(ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, schedules)

	require.NoError(t, dao.Delete(ctx, id, alice))
	_, err = dao.Get(ctx, id, alice)
	assert.True(t, errors.Is(err, model.ErrNotFound))
}

func TestScheduleDAO_FindByUserNewestFirst(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	dao := NewScheduleDAO(discardLogger(), db)
	alice := insertUser(t, db, "alice")
	bob := insertUser(t, db, "bob")

	var ids []model.ID
	for _, description := range []string{"first", "second", "third"} {
		id, err := dao.Insert(ctx, alice, timeSchedule(description, "01:00", "02:00"))
		require.NoError(t, err)
		ids = append(ids, id)
	}
	_, err := dao.Insert(ctx, bob, timeSchedule("bob's", "01:00", "02:00"))
	require.NoError(t, err)

	schedules, err := dao.FindByUser(ctx, alice)
	require.NoError(t, err)
	require.Len(t, schedules, 3)
	assert.Equal(t, []model.ID{ids[2], ids[1], ids[0]}, []model.ID{schedules[0].ID, schedules[1].ID, schedules[2].ID})
	for _, s := range schedules {
		assert.Equal(t, alice, s.UserID)
	}

	count, err := dao.CountByUser(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestScheduleDAO_DaysNormalizedOnWrite(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	dao := NewScheduleDAO(discardLogger(), db)
	alice := insertUser(t, db, "alice")

	in := timeSchedule("Dupes", "01:00", "02:00")
	in.Days = model.Days{time.Friday, time.Monday, time.Friday}

	id, err := dao.Insert(ctx, alice, in)
	require.NoError(t, err)

	got, err := dao.Get(ctx, id, alice)
	require.NoError(t, err)
	assert.Equal(t, model.Days{time.Monday, time.Friday}, got.Days)
}

func TestScheduleDAO_CascadeOnUserDelete(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	dao := NewScheduleDAO(discardLogger(), db)
	alice := insertUser(t, db, "alice")

	for i := 0; i < 2; i++ {
		_, err := dao.Insert(ctx, alice, timeSchedule("cascade", "01:00", "02:00"))
		require.NoError(t, err)
	}

	require.NoError(t, NewUserDAO(discardLogger(), db).Delete(ctx, alice))

	var remaining int
	require.NoError(t, db.GetContext(ctx, &remaining, `SELECT COUNT(*) FROM schedules WHERE user_id = ?`, alice))
	assert.Zero(t, remaining)
}

func TestScheduleDAO_UnknownTypeIsNotSwallowed(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	dao := NewScheduleDAO(discardLogger(), db)

	for i, code := range []int64{9, 0, 256, -1, 1 << 40} {
		owner := insertUser(t, db, fmt.Sprintf("owner%d", i))

		res, err := db.ExecContext(ctx, `
			INSERT INTO schedules (user_id, description, type, days)
			VALUES (?, 'corrupt', ?, '[1]')`, owner, code)
		require.NoError(t, err)
		rawID, err := res.LastInsertId()
		require.NoError(t, err)

		_, err = dao.Get(ctx, model.ID(rawID), owner)
		assert.True(t, errors.Is(err, model.ErrUnknownScheduleType), "type %d: got %v", code, err)

		_, err = dao.FindByUser(ctx, owner)
		assert.True(t, errors.Is(err, model.ErrUnknownScheduleType), "type %d: got %v", code, err)
	}
}

func TestKVDAO(t *testing.T) {
	ctx := context.Background()
	dao := NewKVDAO(discardLogger(), newTestDB(t))

	_, err := dao.Get(ctx, "userId")
	assert.True(t, errors.Is(err, kvs.ErrNotFound))

	require.NoError(t, dao.Set(ctx, "userId", "1"))
	require.NoError(t, dao.Set(ctx, "userId", "2"))

	value, err := dao.Get(ctx, "userId")
	require.NoError(t, err)
	assert.Equal(t, "2", value)

	require.NoError(t, dao.Del(ctx, "userId"))
	_, err = dao.Get(ctx, "userId")
	assert.True(t, errors.Is(err, kvs.ErrNotFound))
}
