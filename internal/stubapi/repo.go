package stubapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Le-Yoy/brendt-store-sub001/internal/modules/orders"
	"github.com/Le-Yoy/brendt-store-sub001/internal/modules/payments"
)

var (
	ErrNotFound          = errors.New("stubapi: not found")
	ErrInvalidTransition = errors.New("stubapi: invalid order status transition")
	ErrSessionClosed     = errors.New("stubapi: session is not open")
)

// Repo stores stub orders and payment sessions.
type Repo struct {
	db  *gorm.DB
	now func() time.Time
}

func NewRepo(db *gorm.DB, now func() time.Time) *Repo {
	if now == nil {
		now = time.Now
	}
	return &Repo{db: db, now: now}
}

func (r *Repo) Migrate(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&orderRow{}, &sessionRow{}, &orderEvent{})
}

// CreateOrder stores sub under the next BR-<yymmdd>-<seq> number.
func (r *Repo) CreateOrder(ctx context.Context, sub orders.Submission, owner string) (orders.Order, error) {
	items, err := json.Marshal(sub.OrderItems)
	if err != nil {
		return orders.Order{}, err
	}
	addr, err := json.Marshal(sub.ShippingAddress)
	if err != nil {
		return orders.Order{}, err
	}

	now := r.now().UTC()
	row := orderRow{
		ID:              uuid.NewString(),
		Owner:           owner,
		Items:           items,
		ShippingAddress: addr,
		PaymentMethod:   sub.PaymentMethod,
		ItemsPrice:      sub.ItemsPrice,
		ShippingPrice:   sub.ShippingPrice,
		TotalPrice:      sub.TotalPrice,
		Status:          statusCreated,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		prefix := "BR-" + now.Format("060102") + "-"
		var n int64
		if err := tx.Model(&orderRow{}).Where("order_number LIKE ?", prefix+"%").Count(&n).Error; err != nil {
			return err
		}
		row.OrderNumber = fmt.Sprintf("%s%04d", prefix, n+1)
		return tx.Create(&row).Error
	})
	if err != nil {
		return orders.Order{}, err
	}
	return row.toOrder()
}

func (r *Repo) GetOrder(ctx context.Context, id string) (orders.Order, string, error) {
	var row orderRow
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return orders.Order{}, "", ErrNotFound
		}
		return orders.Order{}, "", err
	}
	o, err := row.toOrder()
	return o, row.Owner, err
}

func (r *Repo) CreateSession(ctx context.Context, req payments.CreateSessionRequest) (sessionRow, error) {
	var o orderRow
	if err := r.db.WithContext(ctx).First(&o, "id = ?", req.OrderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return sessionRow{}, ErrNotFound
		}
		return sessionRow{}, err
	}
	if o.IsPaid || o.Status != statusCreated {
		return sessionRow{}, ErrInvalidTransition
	}

	now := r.now().UTC()
	row := sessionRow{
		ID:            "cs_" + uuid.NewString(),
		OrderID:       o.ID,
		Amount:        req.Amount,
		Currency:      req.Currency,
		Status:        payments.SessionOpen,
		PaymentStatus: payments.StatusUnpaid,
		SuccessURL:    req.SuccessURL,
		CancelURL:     req.CancelURL,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return sessionRow{}, err
	}
	return row, nil
}

func (r *Repo) GetSession(ctx context.Context, id string) (sessionRow, error) {
	var row sessionRow
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return sessionRow{}, ErrNotFound
		}
		return sessionRow{}, err
	}
	return row, nil
}

// CompleteSession marks the session paid and moves its order to paid.
func (r *Repo) CompleteSession(ctx context.Context, id string) (sessionRow, error) {
	var out sessionRow
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&out, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if out.Status != payments.SessionOpen {
			return ErrSessionClosed
		}

		now := r.now().UTC()
		res := tx.Model(&sessionRow{}).
			Where("id = ? AND status = ?", out.ID, payments.SessionOpen). // optimistic guard
			Updates(map[string]any{
				"status":         payments.SessionComplete,
				"payment_status": payments.StatusPaid,
				"paid_at":        now,
				"updated_at":     now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrSessionClosed
		}
		out.Status = payments.SessionComplete
		out.PaymentStatus = payments.StatusPaid
		out.PaidAt = &now

		return transition(tx, out.OrderID, "pay", now)
	})
	return out, err
}

// CancelOrder moves an unpaid order to cancelled.
func (r *Repo) CancelOrder(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return transition(tx, id, "cancel", r.now().UTC())
	})
}

func transition(tx *gorm.DB, orderID, action string, now time.Time) error {
	var o orderRow
	if err := tx.First(&o, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	from := o.Status
	to, err := nextStatus(from, action)
	if err != nil {
		return err
	}

	updates := map[string]any{"status": to, "updated_at": now}
	if to == statusPaid {
		updates["is_paid"] = true
		updates["paid_at"] = now
	}
	res := tx.Model(&orderRow{}).
		Where("id = ? AND status = ?", o.ID, from).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInvalidTransition
	}

	return tx.Create(&orderEvent{
		ID:         uuid.NewString(),
		OrderID:    o.ID,
		Action:     action,
		FromStatus: from,
		ToStatus:   to,
		CreatedAt:  now,
	}).Error
}

func nextStatus(from, action string) (string, error) {
	switch action {
	case "pay":
		if from == statusCreated {
			return statusPaid, nil
		}
	case "cancel":
		if from == statusCreated {
			return statusCancelled, nil
		}
	}
	return "", ErrInvalidTransition
}

func (row orderRow) toOrder() (orders.Order, error) {
	o := orders.Order{
		ID:            row.ID,
		OrderNumber:   row.OrderNumber,
		PaymentMethod: row.PaymentMethod,
		ItemsPrice:    row.ItemsPrice,
		ShippingPrice: row.ShippingPrice,
		TotalPrice:    row.TotalPrice,
		Status:        row.Status,
		IsPaid:        row.IsPaid,
		PaidAt:        row.PaidAt,
		CreatedAt:     row.CreatedAt,
	}
	if err := json.Unmarshal(row.Items, &o.OrderItems); err != nil {
		return orders.Order{}, fmt.Errorf("decode items: %w", err)
	}
	if err := json.Unmarshal(row.ShippingAddress, &o.ShippingAddress); err != nil {
		return orders.Order{}, fmt.Errorf("decode address: %w", err)
	}
	return o, nil
}

func (row sessionRow) toStatus() payments.SessionStatus {
	return payments.SessionStatus{
		ID:            row.ID,
		Status:        row.Status,
		PaymentStatus: row.PaymentStatus,
		AmountTotal:   row.Amount,
		Currency:      row.Currency,
		PaidAt:        row.PaidAt,
		Metadata:      map[string]string{"orderId": row.OrderID},
	}
}
