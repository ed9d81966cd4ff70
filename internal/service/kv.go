package service

import (
	"context"

	"github.com/protomem/charge-scheduler/internal/database"
	"github.com/protomem/charge-scheduler/internal/kvs"
)

// KV returns a store backed by the kv_entries table. Calls wait for the database like
// every other operation.
func (s *Service) KV() kvs.Store {
	return dbStore{s: s}
}

type dbStore struct {
	s *Service
}

func (d dbStore) Get(ctx context.Context, key string) (string, error) {
	db, err := d.s.await(ctx)
	if err != nil {
		return "", err
	}
	return database.NewKVDAO(d.s.logger, db).Get(ctx, key)
}

func (d dbStore) Set(ctx context.Context, key string, value string) error {
	db, err := d.s.await(ctx)
	if err != nil {
		return err
	}
	return database.NewKVDAO(d.s.logger, db).Set(ctx, key, value)
}

func (d dbStore) Del(ctx context.Context, key string) error {
	db, err := d.s.await(ctx)
	if err != nil {
		return err
	}
	return database.NewKVDAO(d.s.logger, db).Del(ctx, key)
}
