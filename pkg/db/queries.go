package db

import (
	"context"
	"database/sql"
	"time"
)

// Queries wraps the database handle with typed accessors.
type Queries struct {
	db *sql.DB
}

func New(database *sql.DB) *Queries {
	return &Queries{db: database}
}

// Deployment is one recorded deployment run.
type Deployment struct {
	ID           string
	ChainID      int64
	Status       string
	State        string
	TxHash       sql.NullString
	ArtifactPath sql.NullString
	Message      sql.NullString
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (q *Queries) CreateDeployment(ctx context.Context, id string, chainID int64) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO deployments (id, chain_id) VALUES (?, ?)`,
		id, chainID,
	)
	return err
}

func (q *Queries) UpdateDeploymentState(ctx context.Context, id, state string) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE deployments SET state = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		state, id,
	)
	return err
}

func (q *Queries) MarkDeploymentSucceeded(ctx context.Context, id, txHash, artifactPath string) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE deployments
		 SET status = 'success', state = 'DONE', tx_hash = ?, artifact_path = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		txHash, artifactPath, id,
	)
	return err
}

func (q *Queries) MarkDeploymentFailed(ctx context.Context, id, message string) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE deployments
		 SET status = 'failed', state = 'FAILED', message = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		message, id,
	)
	return err
}

func (q *Queries) GetDeployment(ctx context.Context, id string) (*Deployment, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT id, chain_id, status, state, tx_hash, artifact_path, message, created_at, updated_at
		 FROM deployments WHERE id = ?`,
		id,
	)
	return scanDeployment(row)
}

func (q *Queries) ListDeployments(ctx context.Context) ([]*Deployment, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, chain_id, status, state, tx_hash, artifact_path, message, created_at, updated_at
		 FROM deployments ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Deployment
	for rows.Next() {
		d, err := scanDeployment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanDeployment(row scanner) (*Deployment, error) {
	var d Deployment
	err := row.Scan(
		&d.ID, &d.ChainID, &d.Status, &d.State,
		&d.TxHash, &d.ArtifactPath, &d.Message,
		&d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
