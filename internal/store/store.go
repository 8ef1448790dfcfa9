// Package store persists the auth session between panel runs. It is the only
// durable client-side state; everything else is a discardable mirror of the
// backend.
package store

import (
	"encoding/json"
	"fmt"

	bolt "go.etcd.io/bbolt"

	"github.com/smoralesdev/volley-panel/internal/model"
)

var (
	bucketSession = []byte("session")
	keyCurrent    = []byte("current")
)

type Session struct {
	Token string     `json:"token"`
	User  model.User `json:"user"`
}

type Store struct {
	db *bolt.DB
}

func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketSession)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init session store: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) SaveSession(sess Session) error {
	payload, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSession).Put(keyCurrent, payload)
	})
}

// LoadSession returns the stored session, or ok=false when nobody is logged in.
func (s *Store) LoadSession() (Session, bool, error) {
	var sess Session
	var found bool
	err := s.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(bucketSession).Get(keyCurrent)
		if raw == nil {
			return nil
		}
		found = true
		return json.Unmarshal(raw, &sess)
	})
	if err != nil {
		return Session{}, false, err
	}
	return sess, found, nil
}

func (s *Store) ClearSession() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSession).Delete(keyCurrent)
	})
}
