package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/tactics/internal/game/battle"
	"github.com/cory-johannsen/tactics/internal/game/battleground"
)

// ErrBattleNotFound is returned when a battle lookup yields no results.
var ErrBattleNotFound = errors.New("battle not found")

// ErrBattleExists is returned when creating a battle whose id is taken.
var ErrBattleExists = errors.New("battle already exists")

// ErrDeltaGap is returned when appended deltas do not continue the stored log.
var ErrDeltaGap = errors.New("delta log gap")

// BattleRecord is the stored header of a battle. Setup excludes the opening
// deltas; those are the first entries of the stored log.
type BattleRecord struct {
	ID           uuid.UUID
	Battleground string
	Seed         int64
	Setup        battle.Setup
	Participants []battleground.Participant
	Finished     bool
	Winner       *battle.PlayerID
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// BattleRepository stores battles and their append-only delta logs.
type BattleRepository struct {
	db *pgxpool.Pool
}

// NewBattleRepository creates a BattleRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewBattleRepository(db *pgxpool.Pool) *BattleRepository {
	return &BattleRepository{db: db}
}

// Create inserts the battle header and its log so far.
//
// Postcondition: returns ErrBattleExists when rec.ID is taken.
func (r *BattleRepository) Create(ctx context.Context, rec BattleRecord, log []battle.Delta) error {
	setup, err := json.Marshal(rec.Setup)
	if err != nil {
		return fmt.Errorf("encoding setup: %w", err)
	}
	participants, err := json.Marshal(rec.Participants)
	if err != nil {
		return fmt.Errorf("encoding participants: %w", err)
	}
	return inTx(ctx, r.db, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO battles (id, battleground, seed, setup, participants, finished, winner)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			pgUUID(rec.ID), rec.Battleground, rec.Seed, setup, participants, rec.Finished, winnerParam(rec.Winner),
		)
		if err != nil {
			if isDuplicateKeyError(err) {
				return ErrBattleExists
			}
			return fmt.Errorf("inserting battle: %w", err)
		}
		return copyDeltas(ctx, tx, rec.ID, 0, log)
	})
}

// Append stores deltas as log entries from, from+1, ... and updates the
// battle's status.
//
// Precondition: from equals the number of deltas already stored.
// Postcondition: returns ErrDeltaGap when from does not match and
// ErrBattleNotFound when id is unknown; nothing is written on error.
func (r *BattleRepository) Append(ctx context.Context, id uuid.UUID, from int, deltas []battle.Delta, status battle.Status) error {
	return inTx(ctx, r.db, func(tx pgx.Tx) error {
		var stored int
		err := tx.QueryRow(ctx, `
			SELECT COUNT(d.idx) FROM battles b
			LEFT JOIN battle_deltas d ON d.battle_id = b.id
			WHERE b.id = $1
			GROUP BY b.id`,
			pgUUID(id),
		).Scan(&stored)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrBattleNotFound
		}
		if err != nil {
			return fmt.Errorf("counting deltas: %w", err)
		}
		if stored != from {
			return fmt.Errorf("%w: stored %d, appending from %d", ErrDeltaGap, stored, from)
		}
		if err := copyDeltas(ctx, tx, id, from, deltas); err != nil {
			return err
		}
		_, err = tx.Exec(ctx, `
			UPDATE battles SET finished = $2, winner = $3, updated_at = NOW() WHERE id = $1`,
			pgUUID(id), status.Finished, winnerParam(status.Winner),
		)
		if err != nil {
			return fmt.Errorf("updating battle status: %w", err)
		}
		return nil
	})
}

func copyDeltas(ctx context.Context, tx pgx.Tx, id uuid.UUID, from int, deltas []battle.Delta) error {
	if len(deltas) == 0 {
		return nil
	}
	rows := make([][]any, 0, len(deltas))
	for i, d := range deltas {
		env, err := battle.EncodeDelta(d)
		if err != nil {
			return err
		}
		rows = append(rows, []any{pgUUID(id), from + i, string(env.Kind), env.Version, []byte(env.Payload)})
	}
	_, err := tx.CopyFrom(ctx,
		pgx.Identifier{"battle_deltas"},
		[]string{"battle_id", "idx", "kind", "version", "payload"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("copying deltas: %w", err)
	}
	return nil
}

// Load returns the battle header and its full log in order.
//
// Postcondition: returns ErrBattleNotFound when id is unknown.
func (r *BattleRepository) Load(ctx context.Context, id uuid.UUID) (BattleRecord, []battle.Delta, error) {
	rec, err := r.header(ctx, id)
	if err != nil {
		return BattleRecord{}, nil, err
	}

	rows, err := r.db.Query(ctx, `
		SELECT kind, version, payload FROM battle_deltas
		WHERE battle_id = $1 ORDER BY idx ASC`,
		pgUUID(id),
	)
	if err != nil {
		return BattleRecord{}, nil, fmt.Errorf("querying deltas: %w", err)
	}
	defer rows.Close()

	var log []battle.Delta
	for rows.Next() {
		var (
			kind    string
			version int
			payload []byte
		)
		if err := rows.Scan(&kind, &version, &payload); err != nil {
			return BattleRecord{}, nil, fmt.Errorf("scanning delta: %w", err)
		}
		d, err := battle.DecodeDelta(battle.Envelope{Kind: battle.DeltaKind(kind), Version: version, Payload: payload})
		if err != nil {
			return BattleRecord{}, nil, fmt.Errorf("delta %d: %w", len(log), err)
		}
		log = append(log, d)
	}
	if err := rows.Err(); err != nil {
		return BattleRecord{}, nil, fmt.Errorf("iterating deltas: %w", err)
	}
	return rec, log, nil
}

func (r *BattleRepository) header(ctx context.Context, id uuid.UUID) (BattleRecord, error) {
	var (
		rec          BattleRecord
		rawID        string
		setup        []byte
		participants []byte
		winner       *int32
	)
	err := r.db.QueryRow(ctx, `
		SELECT id::text, battleground, seed, setup, participants, finished, winner, created_at, updated_at
		FROM battles WHERE id = $1`,
		pgUUID(id),
	).Scan(&rawID, &rec.Battleground, &rec.Seed, &setup, &participants, &rec.Finished, &winner, &rec.CreatedAt, &rec.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return BattleRecord{}, ErrBattleNotFound
	}
	if err != nil {
		return BattleRecord{}, fmt.Errorf("querying battle: %w", err)
	}
	if rec.ID, err = uuid.Parse(rawID); err != nil {
		return BattleRecord{}, fmt.Errorf("parsing battle id: %w", err)
	}
	if err := json.Unmarshal(setup, &rec.Setup); err != nil {
		return BattleRecord{}, fmt.Errorf("decoding setup: %w", err)
	}
	if err := json.Unmarshal(participants, &rec.Participants); err != nil {
		return BattleRecord{}, fmt.Errorf("decoding participants: %w", err)
	}
	if winner != nil {
		w := battle.PlayerID(*winner)
		rec.Winner = &w
	}
	return rec, nil
}

// ListUnfinished returns the ids of battles still in progress, oldest first.
func (r *BattleRepository) ListUnfinished(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx, `SELECT id::text FROM battles WHERE NOT finished ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing battles: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scanning battle id: %w", err)
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("parsing battle id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func winnerParam(w *battle.PlayerID) *int32 {
	if w == nil {
		return nil
	}
	v := int32(*w)
	return &v
}

// pgUUID converts id to the array form pgx encodes natively as uuid.
func pgUUID(id uuid.UUID) [16]byte { return [16]byte(id) }
