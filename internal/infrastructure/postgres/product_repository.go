package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tu-usuario/marketplace-pro/internal/domain/entity"
	"github.com/tu-usuario/marketplace-pro/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// productColumns columnas del SELECT con los actores embebidos vía LEFT JOIN.
// cu = usuario creador, au = usuario aprobador (puede ser NULL).
const productColumns = `
	p.id, p.business_id, b.name, p.name, p.description, p.price, p.status,
	p.created_at, p.updated_at,
	cu.id, cu.email, cu.first_name, cu.last_name,
	au.id, au.email, au.first_name, au.last_name`

const productJoins = `
	FROM products p
	JOIN businesses b ON b.id = p.business_id
	LEFT JOIN users cu ON cu.id = p.created_by
	LEFT JOIN users au ON au.id = p.approved_by`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL.
type ProductRepo struct {
	pool *pgxpool.Pool
}

// NewProductRepository construye el adaptador de persistencia para productos.
func NewProductRepository(pool *pgxpool.Pool) *ProductRepo {
	return &ProductRepo{pool: pool}
}

// Create persiste un nuevo producto. El estado inicial lo decide el use case.
func (r *ProductRepo) Create(product *entity.Product) error {
	query := `
		INSERT INTO products (id, business_id, name, description, price, status, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	var createdBy *string
	if product.CreatedBy != nil {
		createdBy = &product.CreatedBy.ID
	}
	_, err := r.pool.Exec(context.Background(), query,
		product.ID, product.BusinessID, product.Name, product.Description,
		product.Price, product.Status, createdBy, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto dentro del tenant. Devuelve nil sin error si no existe.
func (r *ProductRepo) GetByID(businessID, id string) (*entity.Product, error) {
	query := `SELECT` + productColumns + productJoins + `
		WHERE p.business_id = $1 AND p.id = $2`
	row := r.pool.QueryRow(context.Background(), query, businessID, id)
	return scanProduct(row)
}

// List lista los productos del tenant con filtros opcionales, más recientes primero.
func (r *ProductRepo) List(businessID string, filter repository.ProductFilter) ([]*entity.Product, error) {
	query := `SELECT` + productColumns + productJoins + `
		WHERE p.business_id = $1`
	args := []any{businessID}
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(" AND p.status = $%d", len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		query += fmt.Sprintf(" AND p.name ILIKE $%d", len(args))
	}
	query += " ORDER BY p.created_at DESC"
	return r.queryMany(query, args...)
}

// UpdateFields actualiza solo los campos editables (name, description, price).
// El estado y los actores se tocan únicamente vía ApplyStatusChange. El WHERE
// exige tenant y estado editable en el mismo statement: un approve concurrente
// entre la lectura del use case y este UPDATE deja RowsAffected en 0 en lugar
// de mutar un producto ya aprobado.
func (r *ProductRepo) UpdateFields(product *entity.Product) (bool, error) {
	query := `
		UPDATE products SET name = $3, description = $4, price = $5, updated_at = $6
		WHERE business_id = $1 AND id = $2 AND status IN ($7, $8)`
	cmd, err := r.pool.Exec(context.Background(), query,
		product.BusinessID, product.ID,
		product.Name, product.Description, product.Price, product.UpdatedAt,
		entity.StatusDraft, entity.StatusPendingApproval,
	)
	if err != nil {
		return false, fmt.Errorf("update product: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}

// ApplyStatusChange ejecuta la transición como un solo UPDATE condicionado por
// el estado de origen. Si otra transición ganó primero (o el producto no existe
// en el tenant), RowsAffected es 0 y se devuelve false.
func (r *ProductRepo) ApplyStatusChange(businessID, id string, change repository.StatusChange) (bool, error) {
	query := `
		UPDATE products SET status = $4, updated_at = now()`
	args := []any{businessID, id, change.From, change.To}
	switch {
	case change.ApprovedBy != nil:
		args = append(args, *change.ApprovedBy)
		query += fmt.Sprintf(", approved_by = $%d", len(args))
	case change.ClearApprover:
		query += ", approved_by = NULL"
	}
	query += `
		WHERE business_id = $1 AND id = $2 AND status = $3`
	cmd, err := r.pool.Exec(context.Background(), query, args...)
	if err != nil {
		return false, fmt.Errorf("apply status change: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}

// Delete elimina un producto del tenant. Devuelve false si no existía en ese business.
func (r *ProductRepo) Delete(businessID, id string) (bool, error) {
	cmd, err := r.pool.Exec(context.Background(),
		`DELETE FROM products WHERE business_id = $1 AND id = $2`, businessID, id)
	if err != nil {
		return false, fmt.Errorf("delete product: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}

// ListApproved lista productos aprobados de todos los tenants (catálogo público).
func (r *ProductRepo) ListApproved(filter repository.PublicProductFilter, limit int) ([]*entity.Product, error) {
	query := `SELECT` + productColumns + productJoins + `
		WHERE p.status = $1`
	args := []any{entity.StatusApproved}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		query += fmt.Sprintf(" AND (p.name ILIKE $%d OR p.description ILIKE $%d)", len(args), len(args))
	}
	if filter.MinPrice != nil {
		args = append(args, *filter.MinPrice)
		query += fmt.Sprintf(" AND p.price >= $%d", len(args))
	}
	if filter.MaxPrice != nil {
		args = append(args, *filter.MaxPrice)
		query += fmt.Sprintf(" AND p.price <= $%d", len(args))
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY p.created_at DESC LIMIT $%d", len(args))
	return r.queryMany(query, args...)
}

// GetApprovedByID obtiene un producto aprobado sin acotar tenant (detalle público).
// Un producto no aprobado se comporta como inexistente.
func (r *ProductRepo) GetApprovedByID(id string) (*entity.Product, error) {
	query := `SELECT` + productColumns + productJoins + `
		WHERE p.id = $1 AND p.status = $2`
	row := r.pool.QueryRow(context.Background(), query, id, entity.StatusApproved)
	return scanProduct(row)
}

func (r *ProductRepo) queryMany(query string, args ...any) ([]*entity.Product, error) {
	rows, err := r.pool.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// scanProduct escanea una fila con los actores embebidos; los campos del
// aprobador (y del creador, si el usuario fue eliminado) llegan como NULL.
func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	var cuID, cuEmail, cuFirst, cuLast *string
	var auID, auEmail, auFirst, auLast *string
	err := row.Scan(
		&p.ID, &p.BusinessID, &p.BusinessName, &p.Name, &p.Description, &p.Price, &p.Status,
		&p.CreatedAt, &p.UpdatedAt,
		&cuID, &cuEmail, &cuFirst, &cuLast,
		&auID, &auEmail, &auFirst, &auLast,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan product: %w", err)
	}
	p.CreatedBy = buildActor(cuID, cuEmail, cuFirst, cuLast)
	p.ApprovedBy = buildActor(auID, auEmail, auFirst, auLast)
	return &p, nil
}

func buildActor(id, email, first, last *string) *entity.ProductActor {
	if id == nil {
		return nil
	}
	actor := &entity.ProductActor{ID: *id}
	if email != nil {
		actor.Email = *email
	}
	if first != nil {
		actor.FirstName = *first
	}
	if last != nil {
		actor.LastName = *last
	}
	return actor
}
