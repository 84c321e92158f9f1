package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"shop-service/internal/broker"
	"shop-service/internal/models"
	"shop-service/internal/store"
	"shop-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PurchaseService runs the purchase workflow: authenticate, resolve the
// product, check stock, draw the simulated payment outcome, then commit the
// stock decrement and transaction insert as one atomic unit.
type PurchaseService struct {
	store          *store.Store
	auth           *AuthService
	catalog        *CatalogService
	eventPublisher *broker.EventPublisher
	logger         *zap.Logger

	// failureRate is the probability that a valid attempt is rejected with a
	// simulated failure. randFloat is swappable so tests can force a branch.
	failureRate float64
	randFloat   func() float64
}

// NewPurchaseService creates a new purchase service
func NewPurchaseService(
	store *store.Store,
	auth *AuthService,
	catalog *CatalogService,
	eventPublisher *broker.EventPublisher,
	failureRate float64,
) *PurchaseService {
	return &PurchaseService{
		store:          store,
		auth:           auth,
		catalog:        catalog,
		eventPublisher: eventPublisher,
		logger:         util.GetLogger(),
		failureRate:    failureRate,
		randFloat:      rand.Float64,
	}
}

// Purchase validates the user and product, applies the failure draw and
// commits the transaction. It returns the new transaction's id, captured from
// the insert itself. Terminal outcomes are *Error values; anything else is an
// unclassified server error.
func (s *PurchaseService) Purchase(ctx context.Context, username, password string, productID int64) (int64, error) {
	ctx, span := util.StartSpan(ctx, "PurchaseService.Purchase")
	defer span.End()

	start := time.Now()
	defer func() {
		util.PurchaseLatency.Observe(time.Since(start).Seconds())
	}()

	creds, err := s.auth.CheckCredentials(ctx, username, password)
	if err != nil {
		return 0, err
	}
	if !creds.Exists {
		util.PurchasesFailedTotal.WithLabelValues("user_not_found").Inc()
		return 0, ErrUserNotFound
	}
	if !creds.Valid {
		util.PurchasesFailedTotal.WithLabelValues("login_failed").Inc()
		return 0, ErrLoginFailed
	}

	// Read the product straight from the store. The detail cache serves the
	// catalog read path only; the stock check must see committed state.
	detail, err := s.store.GetProductDetail(ctx, productID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			util.PurchasesFailedTotal.WithLabelValues("product_not_found").Inc()
			return 0, ErrProductNotFound
		}
		return 0, err
	}

	if detail.Stock <= 0 {
		util.PurchasesFailedTotal.WithLabelValues("out_of_stock").Inc()
		return 0, ErrOutOfStock
	}

	// The draw sits strictly between the stock check and the commit, so a
	// failed draw leaves state untouched.
	if s.randFloat() < s.failureRate {
		util.PurchasesFailedTotal.WithLabelValues("simulated_failure").Inc()
		s.logger.Warn("Purchase rejected by failure draw",
			zap.String("username", username),
			zap.Int64("product_id", productID))
		s.publishFailed(ctx, username, productID, "simulated_failure")
		return 0, ErrTransactionFailed
	}

	t := &models.Transaction{
		Username:    username,
		ProductID:   detail.ID,
		ProductName: detail.Name,
		Price:       detail.Price,
	}
	transactionID, err := s.store.CreatePurchaseTx(ctx, t)
	if err != nil {
		if errors.Is(err, store.ErrOutOfStock) {
			// lost the race for the last unit after the pre-check
			util.PurchasesFailedTotal.WithLabelValues("out_of_stock").Inc()
			return 0, ErrOutOfStock
		}
		util.PurchasesFailedTotal.WithLabelValues("db_error").Inc()
		return 0, fmt.Errorf("commit purchase: %w", err)
	}

	s.catalog.InvalidateDetail(ctx, detail.ID)

	util.PurchasesTotal.Inc()
	s.logger.Info("Purchase completed",
		zap.Int64("transaction_id", transactionID),
		zap.String("username", username),
		zap.Int64("product_id", detail.ID))

	event := &models.PurchaseCompletedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypePurchaseCompleted,
			Timestamp: time.Now(),
		},
		TransactionID: transactionID,
		Username:      username,
		ProductID:     detail.ID,
		ProductName:   detail.Name,
		Price:         detail.Price,
		PaymentRef:    fmt.Sprintf("TXN-%s", uuid.New().String()[:8]),
	}
	if err := s.eventPublisher.PublishPurchaseCompleted(ctx, event); err != nil {
		s.logger.Error("Failed to publish PurchaseCompleted event", zap.Error(err))
	}

	return transactionID, nil
}

// History returns the user's transactions ordered by id. Callers are expected
// to have validated credentials already.
func (s *PurchaseService) History(ctx context.Context, username string) ([]models.Transaction, error) {
	return s.store.GetTransactionsByUsername(ctx, username)
}

func (s *PurchaseService) publishFailed(ctx context.Context, username string, productID int64, reason string) {
	event := &models.PurchaseFailedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypePurchaseFailed,
			Timestamp: time.Now(),
		},
		Username:  username,
		ProductID: productID,
		Reason:    reason,
	}
	if err := s.eventPublisher.PublishPurchaseFailed(ctx, event); err != nil {
		s.logger.Error("Failed to publish PurchaseFailed event", zap.Error(err))
	}
}
