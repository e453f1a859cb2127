package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/civicpulse/complaint-service/internal/domain"
)

// ComplaintFilter narrows complaint listings. Nil fields do not filter.
type ComplaintFilter struct {
	ReporterID          *string
	AssignedVolunteerID *string
}

// ComplaintRepository encapsulates complaint persistence. Ordering of List results is
// unspecified; callers rank them.
type ComplaintRepository interface {
	Create(ctx context.Context, complaint *domain.Complaint) error
	// Update writes the mutable lifecycle fields (assignee, status, updated_at) in a
	// single statement keyed by id. Concurrent writers race; the last one wins.
	Update(ctx context.Context, complaint *domain.Complaint) error
	GetByID(ctx context.Context, id string) (*domain.Complaint, error)
	List(ctx context.Context, filter ComplaintFilter) ([]domain.Complaint, error)
	// CountByStatus tallies complaints by their raw stored status. NULL is reported as "".
	CountByStatus(ctx context.Context) (map[domain.ComplaintStatus]int, error)
}

type complaintRepository struct {
	pool *pgxpool.Pool
}

// NewComplaintRepository instantiates repository.
func NewComplaintRepository(pool *pgxpool.Pool) ComplaintRepository {
	return &complaintRepository{pool: pool}
}

const complaintColumns = `id, reporter_id, title, description, address, landmark, latitude, longitude,
               category, priority, COALESCE(status, ''), assigned_volunteer_id, created_at, updated_at`

func (r *complaintRepository) Create(ctx context.Context, complaint *domain.Complaint) error {
	const query = `
        INSERT INTO complaints (id, reporter_id, title, description, address, landmark, latitude, longitude,
            category, priority, status, assigned_volunteer_id, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`
	lat, lng := splitCoordinates(complaint.Coordinates)
	_, err := r.pool.Exec(ctx, query,
		complaint.ID,
		complaint.ReporterID,
		complaint.Title,
		complaint.Description,
		complaint.Address,
		complaint.Landmark,
		lat,
		lng,
		complaint.Category,
		complaint.Priority,
		complaint.Status,
		complaint.AssignedVolunteerID,
		complaint.CreatedAt,
		complaint.UpdatedAt,
	)
	return translate(err)
}

func (r *complaintRepository) Update(ctx context.Context, complaint *domain.Complaint) error {
	const query = `
        UPDATE complaints SET assigned_volunteer_id=$1, status=$2, updated_at=$3
        WHERE id=$4`
	cmd, err := r.pool.Exec(ctx, query,
		complaint.AssignedVolunteerID,
		complaint.Status,
		complaint.UpdatedAt,
		complaint.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *complaintRepository) GetByID(ctx context.Context, id string) (*domain.Complaint, error) {
	query := `SELECT ` + complaintColumns + ` FROM complaints WHERE id=$1`
	complaint, err := scanComplaint(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, translate(err)
	}
	return complaint, nil
}

func (r *complaintRepository) List(ctx context.Context, filter ComplaintFilter) ([]domain.Complaint, error) {
	base := `SELECT ` + complaintColumns + ` FROM complaints`
	clauses := []string{"1=1"}
	args := []any{}

	if filter.ReporterID != nil {
		args = append(args, *filter.ReporterID)
		clauses = append(clauses, fmt.Sprintf("reporter_id=$%d", len(args)))
	}
	if filter.AssignedVolunteerID != nil {
		args = append(args, *filter.AssignedVolunteerID)
		clauses = append(clauses, fmt.Sprintf("assigned_volunteer_id=$%d", len(args)))
	}

	query := fmt.Sprintf(`%s WHERE %s`, base, strings.Join(clauses, " AND "))
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Complaint
	for rows.Next() {
		complaint, err := scanComplaint(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *complaint)
	}
	return result, rows.Err()
}

func (r *complaintRepository) CountByStatus(ctx context.Context) (map[domain.ComplaintStatus]int, error) {
	const query = `SELECT COALESCE(status, ''), COUNT(*) FROM complaints GROUP BY COALESCE(status, '')`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.ComplaintStatus]int)
	for rows.Next() {
		var (
			status string
			count  int
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[domain.ComplaintStatus(status)] += count
	}
	return counts, rows.Err()
}

func scanComplaint(row pgx.Row) (*domain.Complaint, error) {
	var (
		complaint domain.Complaint
		lat, lng  *float64
	)
	if err := row.Scan(
		&complaint.ID,
		&complaint.ReporterID,
		&complaint.Title,
		&complaint.Description,
		&complaint.Address,
		&complaint.Landmark,
		&lat,
		&lng,
		&complaint.Category,
		&complaint.Priority,
		&complaint.Status,
		&complaint.AssignedVolunteerID,
		&complaint.CreatedAt,
		&complaint.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if lat != nil && lng != nil {
		complaint.Coordinates = &domain.Coordinates{Latitude: *lat, Longitude: *lng}
	}
	return &complaint, nil
}

func splitCoordinates(c *domain.Coordinates) (*float64, *float64) {
	if c == nil {
		return nil, nil
	}
	lat, lng := c.Latitude, c.Longitude
	return &lat, &lng
}
