package cards

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// PostgresRepository serves card templates from postgres with a read-through
// cache. Concurrent lookups of the same ID are collapsed via singleflight so
// a cold cache issues at most one query per template.
type PostgresRepository struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
	group  singleflight.Group

	mu         sync.RWMutex
	creatures  map[string]*Creature
	byName     map[string]*Creature
	supporters map[string]*Supporter
	items      map[string]*Item
	tools      map[string]*Tool
	allIDs     []string
}

// NewPostgresRepository connects a pool and verifies it with a ping.
func NewPostgresRepository(ctx context.Context, databaseURL string, logger *zap.Logger) (*PostgresRepository, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	cfg.MaxConnLifetime = time.Hour
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	logger.Info("card database connected",
		zap.Int32("total_conns", pool.Stat().TotalConns()),
	)
	return &PostgresRepository{
		pool:       pool,
		logger:     logger,
		creatures:  make(map[string]*Creature),
		byName:     make(map[string]*Creature),
		supporters: make(map[string]*Supporter),
		items:      make(map[string]*Item),
		tools:      make(map[string]*Tool),
	}, nil
}

// Close releases the connection pool.
func (r *PostgresRepository) Close() {
	r.pool.Close()
}

func (r *PostgresRepository) Creature(id string) (*Creature, error) {
	r.mu.RLock()
	if c, ok := r.creatures[id]; ok {
		r.mu.RUnlock()
		return c, nil
	}
	r.mu.RUnlock()

	v, err, _ := r.group.Do("creature:"+id, func() (any, error) {
		return r.queryCreature(context.Background(), "id", id)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Creature), nil
}

func (r *PostgresRepository) CreatureByName(name string) (*Creature, error) {
	r.mu.RLock()
	if c, ok := r.byName[name]; ok {
		r.mu.RUnlock()
		return c, nil
	}
	r.mu.RUnlock()

	v, err, _ := r.group.Do("creature-name:"+name, func() (any, error) {
		return r.queryCreature(context.Background(), "name", name)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Creature), nil
}

func (r *PostgresRepository) queryCreature(ctx context.Context, column, key string) (*Creature, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, name, hp, type, stage, evolves_from, weakness, retreat_cost, attributes, attacks, ability
		   FROM creatures WHERE `+column+` = $1`, key)

	var (
		c           Creature
		evolvesFrom *string
		weakness    *string
		attributes  []byte
		attacks     []byte
		ability     []byte
	)
	err := row.Scan(&c.ID, &c.Name, &c.HP, &c.Type, &c.Stage, &evolvesFrom, &weakness, &c.RetreatCost, &attributes, &attacks, &ability)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("creature %q: %w", key, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query creature %q: %w", key, err)
	}
	if evolvesFrom != nil {
		c.EvolvesFrom = *evolvesFrom
	}
	if weakness != nil {
		c.Weakness = EnergyType(*weakness)
	}
	if len(attributes) > 0 {
		if err := json.Unmarshal(attributes, &c.Attributes); err != nil {
			return nil, fmt.Errorf("decode creature %q attributes: %w", key, err)
		}
	}
	if len(attacks) > 0 {
		if err := json.Unmarshal(attacks, &c.Attacks); err != nil {
			return nil, fmt.Errorf("decode creature %q attacks: %w", key, err)
		}
	}
	if len(ability) > 0 {
		if err := json.Unmarshal(ability, &c.Ability); err != nil {
			return nil, fmt.Errorf("decode creature %q ability: %w", key, err)
		}
	}

	r.mu.Lock()
	r.creatures[c.ID] = &c
	r.byName[c.Name] = &c
	r.mu.Unlock()
	return &c, nil
}

func (r *PostgresRepository) Supporter(id string) (*Supporter, error) {
	r.mu.RLock()
	if s, ok := r.supporters[id]; ok {
		r.mu.RUnlock()
		return s, nil
	}
	r.mu.RUnlock()

	v, err, _ := r.group.Do("supporter:"+id, func() (any, error) {
		var s Supporter
		var effects []byte
		row := r.pool.QueryRow(context.Background(),
			`SELECT id, name, effects FROM trainers WHERE id = $1 AND kind = 'supporter'`, id)
		err := row.Scan(&s.ID, &s.Name, &effects)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("supporter %q: %w", id, ErrNotFound)
		}
		if err != nil {
			return nil, fmt.Errorf("query supporter %q: %w", id, err)
		}
		if len(effects) > 0 {
			if err := json.Unmarshal(effects, &s.Effects); err != nil {
				return nil, fmt.Errorf("decode supporter %q effects: %w", id, err)
			}
		}
		r.mu.Lock()
		r.supporters[s.ID] = &s
		r.mu.Unlock()
		return &s, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Supporter), nil
}

func (r *PostgresRepository) Item(id string) (*Item, error) {
	r.mu.RLock()
	if i, ok := r.items[id]; ok {
		r.mu.RUnlock()
		return i, nil
	}
	r.mu.RUnlock()

	v, err, _ := r.group.Do("item:"+id, func() (any, error) {
		var i Item
		var effects []byte
		row := r.pool.QueryRow(context.Background(),
			`SELECT id, name, effects FROM trainers WHERE id = $1 AND kind = 'item'`, id)
		err := row.Scan(&i.ID, &i.Name, &effects)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("item %q: %w", id, ErrNotFound)
		}
		if err != nil {
			return nil, fmt.Errorf("query item %q: %w", id, err)
		}
		if len(effects) > 0 {
			if err := json.Unmarshal(effects, &i.Effects); err != nil {
				return nil, fmt.Errorf("decode item %q effects: %w", id, err)
			}
		}
		r.mu.Lock()
		r.items[i.ID] = &i
		r.mu.Unlock()
		return &i, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Item), nil
}

func (r *PostgresRepository) Tool(id string) (*Tool, error) {
	r.mu.RLock()
	if t, ok := r.tools[id]; ok {
		r.mu.RUnlock()
		return t, nil
	}
	r.mu.RUnlock()

	v, err, _ := r.group.Do("tool:"+id, func() (any, error) {
		var t Tool
		var effects []byte
		row := r.pool.QueryRow(context.Background(),
			`SELECT id, name, effects FROM trainers WHERE id = $1 AND kind = 'tool'`, id)
		err := row.Scan(&t.ID, &t.Name, &effects)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("tool %q: %w", id, ErrNotFound)
		}
		if err != nil {
			return nil, fmt.Errorf("query tool %q: %w", id, err)
		}
		if len(effects) > 0 {
			if err := json.Unmarshal(effects, &t.Effects); err != nil {
				return nil, fmt.Errorf("decode tool %q effects: %w", id, err)
			}
		}
		r.mu.Lock()
		r.tools[t.ID] = &t
		r.mu.Unlock()
		return &t, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Tool), nil
}

func (r *PostgresRepository) AllCreatureIDs() []string {
	r.mu.RLock()
	if r.allIDs != nil {
		ids := r.allIDs
		r.mu.RUnlock()
		return ids
	}
	r.mu.RUnlock()

	v, err, _ := r.group.Do("all-creature-ids", func() (any, error) {
		rows, err := r.pool.Query(context.Background(), `SELECT id FROM creatures ORDER BY id`)
		if err != nil {
			return nil, fmt.Errorf("query creature ids: %w", err)
		}
		defer rows.Close()
		var ids []string
		for rows.Next() {
			var id string
			if err := rows.Scan(&id); err != nil {
				return nil, fmt.Errorf("scan creature id: %w", err)
			}
			ids = append(ids, id)
		}
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("iterate creature ids: %w", err)
		}
		r.mu.Lock()
		r.allIDs = ids
		r.mu.Unlock()
		return ids, nil
	})
	if err != nil {
		r.logger.Error("list creature ids failed", zap.Error(err))
		return nil
	}
	return v.([]string)
}
