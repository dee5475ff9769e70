package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"resellhub-api/internal/model"
)

// Store implements the repository interfaces over a database/sql connection.
// The same query set serves both backends; only the DDL differs per driver.
type Store struct {
	db     *sql.DB
	driver string
}

// DB exposes the underlying connection for health checks.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Driver returns the backend name ("sqlite" or "mysql").
func (s *Store) Driver() string {
	return s.driver
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

const dateTimeLayout = "2006-01-02 15:04:05"

func parseDate(v string) (time.Time, error) {
	if len(v) > len(model.DateLayout) {
		v = v[:len(model.DateLayout)]
	}
	return time.Parse(model.DateLayout, v)
}

func parseTimestamp(v string) time.Time {
	if t, err := time.Parse(dateTimeLayout, v); err == nil {
		return t
	}
	t, _ := time.Parse(time.RFC3339, v)
	return t
}

// ---------------------------------------------------------------------------
// Inventory ledger
// ---------------------------------------------------------------------------

// CreateAccountWithProfiles inserts the account and its seats in one
// transaction, mirroring how stock is provisioned: one shared credential,
// profileCount allocatable profiles named "Profile 1..N".
func (s *Store) CreateAccountWithProfiles(ctx context.Context, account *model.InventoryAccount, profileCount int) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if account.Status == "" {
		account.Status = model.AccountAvailable
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO inventory_accounts (product_id, email, password, status) VALUES (?, ?, ?, ?)`,
		account.ProductID, account.Email, account.Password, string(account.Status))
	if err != nil {
		return fmt.Errorf("failed to insert account: %w", err)
	}

	account.ID, err = res.LastInsertId()
	if err != nil {
		return err
	}

	for i := 1; i <= profileCount; i++ {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO inventory_profiles (account_id, name, status) VALUES (?, ?, 'available')`,
			account.ID, fmt.Sprintf("Profile %d", i))
		if err != nil {
			return fmt.Errorf("failed to insert profile %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetAccount returns nil when the account does not exist.
func (s *Store) GetAccount(ctx context.Context, id int64) (*model.InventoryAccount, error) {
	var (
		a       model.InventoryAccount
		status  string
		created string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, product_id, email, password, status, created_at FROM inventory_accounts WHERE id = ?`, id).
		Scan(&a.ID, &a.ProductID, &a.Email, &a.Password, &status, &created)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	a.Status = model.AccountStatus(status)
	a.CreatedAt = parseTimestamp(created)
	return &a, nil
}

// DeleteAccount removes the account and its profiles. The delete is refused
// while any profile is assigned: a seat occupied by an active sale must be
// expelled first.
func (s *Store) DeleteAccount(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var assigned int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM inventory_profiles WHERE account_id = ? AND status = 'assigned'`, id).
		Scan(&assigned)
	if err != nil {
		return fmt.Errorf("failed to count assigned profiles: %w", err)
	}
	if assigned > 0 {
		return ErrAccountInUse
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM inventory_profiles WHERE account_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete profiles: %w", err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM inventory_accounts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetProfile returns nil when the profile does not exist.
func (s *Store) GetProfile(ctx context.Context, id int64) (*model.InventoryProfile, error) {
	var (
		p      model.InventoryProfile
		status string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, account_id, name, status FROM inventory_profiles WHERE id = ?`, id).
		Scan(&p.ID, &p.AccountID, &p.Name, &status)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	p.Status = model.ProfileStatus(status)
	return &p, nil
}

// ListProfiles returns all profiles of an account ordered by id.
func (s *Store) ListProfiles(ctx context.Context, accountID int64) ([]model.InventoryProfile, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, account_id, name, status FROM inventory_profiles WHERE account_id = ? ORDER BY id`,
		accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	profiles := []model.InventoryProfile{}
	for rows.Next() {
		var (
			p      model.InventoryProfile
			status string
		)
		if err := rows.Scan(&p.ID, &p.AccountID, &p.Name, &status); err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		p.Status = model.ProfileStatus(status)
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

// UpdateProfile applies the non-nil fields of the patch. Returns false when
// the profile does not exist.
func (s *Store) UpdateProfile(ctx context.Context, id int64, patch model.ProfilePatch) (bool, error) {
	if patch.Empty() {
		var exists int
		err := s.db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM inventory_profiles WHERE id = ?`, id).Scan(&exists)
		return exists > 0, err
	}

	query := `UPDATE inventory_profiles SET `
	args := make([]any, 0, 3)
	if patch.Name != nil {
		query += `name = ?`
		args = append(args, *patch.Name)
	}
	if patch.Status != nil {
		if patch.Name != nil {
			query += `, `
		}
		query += `status = ?`
		args = append(args, string(*patch.Status))
	}
	query += ` WHERE id = ?`
	args = append(args, id)

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to update profile: %w", err)
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// FindAvailableProfile picks one available profile across all accounts of the
// product. Lowest id wins so the selection is deterministic. A nil result
// means sold out, not an error.
func (s *Store) FindAvailableProfile(ctx context.Context, productID int64) (*model.InventoryProfile, error) {
	var (
		p      model.InventoryProfile
		status string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT ip.id, ip.account_id, ip.name, ip.status
		FROM inventory_profiles ip
		JOIN inventory_accounts ia ON ip.account_id = ia.id
		WHERE ia.product_id = ? AND ip.status = 'available'
		ORDER BY ip.id
		LIMIT 1`, productID).
		Scan(&p.ID, &p.AccountID, &p.Name, &status)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find available profile: %w", err)
	}
	p.Status = model.ProfileStatus(status)
	return &p, nil
}

// CountAvailableProfiles returns the available seat count for a product.
func (s *Store) CountAvailableProfiles(ctx context.Context, productID int64) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(ip.id)
		FROM inventory_profiles ip
		JOIN inventory_accounts ia ON ip.account_id = ia.id
		WHERE ia.product_id = ? AND ip.status = 'available'`, productID).
		Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count available profiles: %w", err)
	}
	return count, nil
}

// ReserveProfile is the sole concurrency-safe mutation point for
// availability: a single conditional update, never a read-then-write pair.
// Returns false when the profile was not available at the time of the attempt.
func (s *Store) ReserveProfile(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE inventory_profiles SET status = 'assigned' WHERE id = ? AND status = 'available'`, id)
	if err != nil {
		return false, fmt.Errorf("failed to reserve profile: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ReleaseProfile returns a seat to the pool. Releasing an already available
// profile is a no-op, not an error.
func (s *Store) ReleaseProfile(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE inventory_profiles SET status = 'available' WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to release profile: %w", err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Sales
// ---------------------------------------------------------------------------

// CreateSale binds the sale to its profile atomically: the conditional
// reservation and the insert either both commit or both roll back. A lost
// reservation race surfaces as ErrProfileUnavailable with no partial state.
func (s *Store) CreateSale(ctx context.Context, sale *model.Sale) error {
	if sale.ProfileID == nil {
		return ErrProfileUnavailable
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE inventory_profiles SET status = 'assigned' WHERE id = ? AND status = 'available'`,
		*sale.ProfileID)
	if err != nil {
		return fmt.Errorf("failed to reserve profile: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrProfileUnavailable
	}

	res, err = tx.ExecContext(ctx, `
		INSERT INTO sales (client_id, agent_id, profile_id, sales_attribute_id, cost, start_date, end_date, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, 'active')`,
		sale.ClientID, sale.AgentID, *sale.ProfileID, sale.SalesAttributeID,
		sale.Cost, sale.StartDate.Format(model.DateLayout), sale.EndDate.Format(model.DateLayout))
	if err != nil {
		return fmt.Errorf("failed to insert sale: %w", err)
	}

	sale.ID, err = res.LastInsertId()
	if err != nil {
		return err
	}
	sale.Status = model.SaleActive

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetSale returns nil when the sale does not exist.
func (s *Store) GetSale(ctx context.Context, id int64) (*model.Sale, error) {
	var (
		sale      model.Sale
		profileID sql.NullInt64
		status    string
		start     string
		end       string
		created   string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, client_id, agent_id, profile_id, sales_attribute_id, cost, start_date, end_date, status, created_at
		FROM sales WHERE id = ?`, id).
		Scan(&sale.ID, &sale.ClientID, &sale.AgentID, &profileID, &sale.SalesAttributeID,
			&sale.Cost, &start, &end, &status, &created)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get sale: %w", err)
	}

	if profileID.Valid {
		sale.ProfileID = &profileID.Int64
	}
	sale.Status = model.SaleStatus(status)
	if sale.StartDate, err = parseDate(start); err != nil {
		return nil, fmt.Errorf("bad start_date for sale %d: %w", id, err)
	}
	if sale.EndDate, err = parseDate(end); err != nil {
		return nil, fmt.Errorf("bad end_date for sale %d: %w", id, err)
	}
	sale.CreatedAt = parseTimestamp(created)
	return &sale, nil
}

// RenewSale moves the end date forward and puts the sale back to active.
func (s *Store) RenewSale(ctx context.Context, id int64, newEndDate time.Time) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE sales SET end_date = ?, status = 'active' WHERE id = ?`,
		newEndDate.Format(model.DateLayout), id)
	if err != nil {
		return false, fmt.Errorf("failed to renew sale: %w", err)
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// CancelSale marks the sale cancelled and frees its seat in one transaction.
func (s *Store) CancelSale(ctx context.Context, id int64, profileID *int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `UPDATE sales SET status = 'cancelled' WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to cancel sale: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}

	if profileID != nil {
		_, err = tx.ExecContext(ctx,
			`UPDATE inventory_profiles SET status = 'available' WHERE id = ?`, *profileID)
		if err != nil {
			return fmt.Errorf("failed to release profile: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ReactivateSale swaps a fresh seat into a lapsed sale. The new profile is
// reserved with the same conditional update as allocation; the prior profile,
// when still linked, is released so it does not stay assigned to a sale that
// no longer occupies it.
func (s *Store) ReactivateSale(ctx context.Context, id int64, newProfileID int64, priorProfileID *int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE inventory_profiles SET status = 'assigned' WHERE id = ? AND status = 'available'`,
		newProfileID)
	if err != nil {
		return fmt.Errorf("failed to reserve profile: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrProfileUnavailable
	}

	if priorProfileID != nil && *priorProfileID != newProfileID {
		_, err = tx.ExecContext(ctx,
			`UPDATE inventory_profiles SET status = 'available' WHERE id = ?`, *priorProfileID)
		if err != nil {
			return fmt.Errorf("failed to release prior profile: %w", err)
		}
	}

	res, err = tx.ExecContext(ctx,
		`UPDATE sales SET profile_id = ?, status = 'active' WHERE id = ?`, newProfileID, id)
	if err != nil {
		return fmt.Errorf("failed to update sale: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// DeleteSale frees the seat and removes the row in one transaction. A
// profile-less sale (mid-reactivation leftovers) just loses its row.
func (s *Store) DeleteSale(ctx context.Context, id int64, profileID *int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if profileID != nil {
		_, err = tx.ExecContext(ctx,
			`UPDATE inventory_profiles SET status = 'available' WHERE id = ?`, *profileID)
		if err != nil {
			return fmt.Errorf("failed to release profile: %w", err)
		}
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM sales WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete sale: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// FindExpiringOn returns active sales whose end date equals day exactly. The
// query is fresh on every call; there is no cursor to resume.
func (s *Store) FindExpiringOn(ctx context.Context, day time.Time) ([]model.SaleSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.id, s.agent_id, s.end_date, c.id, c.full_name, c.email, p.name
		FROM sales s
		JOIN clients c ON s.client_id = c.id
		JOIN sales_attributes sa ON s.sales_attribute_id = sa.id
		JOIN products p ON sa.product_id = p.id
		WHERE s.status = 'active' AND s.end_date = ?`,
		day.Format(model.DateLayout))
	if err != nil {
		return nil, fmt.Errorf("failed to query expiring sales: %w", err)
	}
	defer rows.Close()

	summaries := []model.SaleSummary{}
	for rows.Next() {
		var (
			sum model.SaleSummary
			end string
		)
		if err := rows.Scan(&sum.SaleID, &sum.AgentID, &end, &sum.ClientID,
			&sum.ClientName, &sum.ClientEmail, &sum.ProductName); err != nil {
			return nil, fmt.Errorf("failed to scan expiring sale: %w", err)
		}
		if sum.EndDate, err = parseDate(end); err != nil {
			return nil, fmt.Errorf("bad end_date for sale %d: %w", sum.SaleID, err)
		}
		summaries = append(summaries, sum)
	}
	return summaries, rows.Err()
}

// ---------------------------------------------------------------------------
// Catalog lookups
// ---------------------------------------------------------------------------

// GetClient returns nil when the client does not exist.
func (s *Store) GetClient(ctx context.Context, id int64) (*model.Client, error) {
	var (
		c       model.Client
		created string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, full_name, phone, email, created_at FROM clients WHERE id = ?`, id).
		Scan(&c.ID, &c.FullName, &c.Phone, &c.Email, &created)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	c.CreatedAt = parseTimestamp(created)
	return &c, nil
}

// GetProduct returns nil when the product does not exist.
func (s *Store) GetProduct(ctx context.Context, id int64) (*model.Product, error) {
	var (
		p         model.Product
		ownership string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, supplier_id, type, name, ownership, warranty, cost, renewable, roi_target
		FROM products WHERE id = ?`, id).
		Scan(&p.ID, &p.SupplierID, &p.Type, &p.Name, &ownership, &p.Warranty,
			&p.Cost, &p.Renewable, &p.ROITarget)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	p.Ownership = model.Ownership(ownership)
	return &p, nil
}

// GetSalesAttribute returns nil when the plan does not exist.
func (s *Store) GetSalesAttribute(ctx context.Context, id int64) (*model.SalesAttribute, error) {
	var a model.SalesAttribute
	err := s.db.QueryRowContext(ctx,
		`SELECT id, product_id, duration_days, capacity, price FROM sales_attributes WHERE id = ?`, id).
		Scan(&a.ID, &a.ProductID, &a.DurationDays, &a.Capacity, &a.Price)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get sales attribute: %w", err)
	}
	return &a, nil
}

// CreateClient inserts a client and fills in its ID.
func (s *Store) CreateClient(ctx context.Context, client *model.Client) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO clients (full_name, phone, email) VALUES (?, ?, ?)`,
		client.FullName, client.Phone, client.Email)
	if err != nil {
		return fmt.Errorf("failed to insert client: %w", err)
	}
	client.ID, err = res.LastInsertId()
	return err
}

// CreateProduct inserts a product and fills in its ID.
func (s *Store) CreateProduct(ctx context.Context, product *model.Product) error {
	if product.Ownership == "" {
		product.Ownership = model.OwnershipRented
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO products (supplier_id, type, name, ownership, warranty, cost, renewable, roi_target)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		product.SupplierID, product.Type, product.Name, string(product.Ownership),
		product.Warranty, product.Cost, product.Renewable, product.ROITarget)
	if err != nil {
		return fmt.Errorf("failed to insert product: %w", err)
	}
	product.ID, err = res.LastInsertId()
	return err
}

// CreateSalesAttribute inserts a plan and fills in its ID.
func (s *Store) CreateSalesAttribute(ctx context.Context, attr *model.SalesAttribute) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO sales_attributes (product_id, duration_days, capacity, price) VALUES (?, ?, ?, ?)`,
		attr.ProductID, attr.DurationDays, attr.Capacity, attr.Price)
	if err != nil {
		return fmt.Errorf("failed to insert sales attribute: %w", err)
	}
	attr.ID, err = res.LastInsertId()
	return err
}

// CreateUser inserts a back-office user; used by seeding and role-wide
// notification fan-out.
func (s *Store) CreateUser(ctx context.Context, username, role string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users (username, role) VALUES (?, ?)`, username, role)
	if err != nil {
		return 0, fmt.Errorf("failed to insert user: %w", err)
	}
	return res.LastInsertId()
}

// GetUserByUsername returns nil when no such user exists.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	var (
		u       model.User
		created string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, username, role, created_at FROM users WHERE username = ?`, username).
		Scan(&u.ID, &u.Username, &u.Role, &created)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %q: %w", username, err)
	}
	u.CreatedAt = parseTimestamp(created)
	return &u, nil
}

// ---------------------------------------------------------------------------
// Audit log and notifications (best-effort collaborators)
// ---------------------------------------------------------------------------

// Record writes an audit trail entry.
func (s *Store) Record(ctx context.Context, entry *model.AuditEntry) error {
	var before, after any
	if len(entry.Before) > 0 {
		before = string(entry.Before)
	}
	if len(entry.After) > 0 {
		after = string(entry.After)
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO audit_logs (user_id, action, entity, entity_id, before_state, after_state)
		VALUES (?, ?, ?, ?, ?, ?)`,
		entry.UserID, entry.Action, entry.Entity, entry.EntityID, before, after)
	if err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	entry.ID, err = res.LastInsertId()
	return err
}

// Create inserts a notification for one user.
func (s *Store) Create(ctx context.Context, n *model.Notification) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO notifications (user_id, title, message, category) VALUES (?, ?, ?, ?)`,
		n.UserID, n.Title, n.Message, n.Category)
	if err != nil {
		return fmt.Errorf("failed to insert notification: %w", err)
	}
	n.ID, err = res.LastInsertId()
	return err
}

// CreateForRole fans a notification out to every user holding the role.
func (s *Store) CreateForRole(ctx context.Context, role, title, message, category string) error {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM users WHERE role = ?`, role)
	if err != nil {
		return fmt.Errorf("failed to list users for role %q: %w", role, err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, id := range ids {
		if err := s.Create(ctx, &model.Notification{
			UserID: id, Title: title, Message: message, Category: category,
		}); err != nil {
			return err
		}
	}
	return nil
}

// MarshalState JSON-encodes an entity snapshot for an audit entry.
func MarshalState(v any) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return data
}

// Compile-time interface checks.
var (
	_ InventoryRepository    = (*Store)(nil)
	_ SaleRepository         = (*Store)(nil)
	_ UserRepository         = (*Store)(nil)
	_ CatalogRepository      = (*Store)(nil)
	_ AuditRepository        = (*Store)(nil)
	_ NotificationRepository = (*Store)(nil)
)
