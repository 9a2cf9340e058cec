package mpostgres

import (
	"context"
	"errors"
	"time"

	"smsnotify/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("mpostgres: record not found")

type SubscriptionService interface {
	GetByCustomer(ctx context.Context, customerID uint) ([]model.SmsSubscription, error)
	Create(ctx context.Context, customerID uint, smsType string) (model.SmsSubscription, error)
	Delete(ctx context.Context, customerID uint, smsType string) error
}

type subscription struct {
	pool *pgxpool.Pool
}

func NewSubscriptionService(pool *pgxpool.Pool) SubscriptionService {
	return &subscription{
		pool: pool,
	}
}

func (r *subscription) GetByCustomer(ctx context.Context, customerID uint) ([]model.SmsSubscription, error) {
	var subscriptions []model.SmsSubscription

	query := `
		SELECT id, customer_id, sms_type, created_at
		FROM sms_subscriptions
		WHERE customer_id = $1
		ORDER BY sms_type
	`
	rows, err := r.pool.Query(ctx, query, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var sub model.SmsSubscription
		var createdAt *time.Time

		err := rows.Scan(
			&sub.ID,
			&sub.CustomerID,
			&sub.SmsType,
			&createdAt,
		)
		if err != nil {
			return nil, err
		}

		if createdAt != nil {
			sub.CreatedAt = *createdAt
		}

		subscriptions = append(subscriptions, sub)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return subscriptions, nil
}

func (r *subscription) Create(ctx context.Context, customerID uint, smsType string) (model.SmsSubscription, error) {
	// The unique (customer_id, sms_type) constraint makes re-subscribing a
	// no-op instead of a duplicate row.
	query := `
		INSERT INTO sms_subscriptions (customer_id, sms_type, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (customer_id, sms_type) DO UPDATE SET sms_type = EXCLUDED.sms_type
		RETURNING id, customer_id, sms_type, created_at
	`

	var sub model.SmsSubscription
	err := r.pool.QueryRow(ctx, query, customerID, smsType, time.Now()).Scan(
		&sub.ID,
		&sub.CustomerID,
		&sub.SmsType,
		&sub.CreatedAt,
	)
	if err != nil {
		return model.SmsSubscription{}, err
	}

	return sub, nil
}

func (r *subscription) Delete(ctx context.Context, customerID uint, smsType string) error {
	query := `
		DELETE FROM sms_subscriptions
		WHERE customer_id = $1 AND sms_type = $2
	`

	tag, err := r.pool.Exec(ctx, query, customerID, smsType)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

type CustomerService interface {
	GetCustomer(ctx context.Context, id uint) (model.Customer, error)
	UpdateMobileNumber(ctx context.Context, id uint, prefix, number string) (bool, error)
}

type customer struct {
	pool *pgxpool.Pool
}

func NewCustomerService(pool *pgxpool.Pool) CustomerService {
	return &customer{
		pool: pool,
	}
}

func (r *customer) GetCustomer(ctx context.Context, id uint) (model.Customer, error) {
	query := `
		SELECT id, first_name, last_name, mobile_phone_prefix, mobile_phone_number, created_at, updated_at
		FROM customers
		WHERE id = $1
	`

	var cust model.Customer
	var prefix, number *string
	var createdAt, updatedAt *time.Time

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&cust.ID,
		&cust.FirstName,
		&cust.LastName,
		&prefix,
		&number,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Customer{}, ErrNotFound
		}
		return model.Customer{}, err
	}

	if prefix != nil {
		cust.MobilePhonePrefix = *prefix
	}
	if number != nil {
		cust.MobilePhoneNumber = *number
	}
	if createdAt != nil {
		cust.CreatedAt = *createdAt
	}
	if updatedAt != nil {
		cust.UpdatedAt = *updatedAt
	}

	return cust, nil
}

// UpdateMobileNumber stores a new prefix+number pair and reports whether the
// stored value actually changed. An unchanged pair is a no-op, so the caller
// can decide whether a welcome message is due.
func (r *customer) UpdateMobileNumber(ctx context.Context, id uint, prefix, number string) (bool, error) {
	current, err := r.GetCustomer(ctx, id)
	if err != nil {
		return false, err
	}

	if current.MobilePhonePrefix == prefix && current.MobilePhoneNumber == number {
		return false, nil
	}

	query := `
		UPDATE customers
		SET mobile_phone_prefix = $1, mobile_phone_number = $2, updated_at = $3
		WHERE id = $4
	`

	_, err = r.pool.Exec(ctx, query, prefix, number, time.Now(), id)
	if err != nil {
		return false, err
	}

	return true, nil
}
