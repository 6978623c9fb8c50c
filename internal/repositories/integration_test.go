package repositories

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/books4all/internal/migrations"
	"github.com/sbilibin2017/books4all/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupPostgres starts postgres:15-alpine and applies the embedded migrations.
func setupPostgres(t *testing.T) *sqlx.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_PASSWORD": "secret", "POSTGRES_DB": "testdb", "POSTGRES_USER": "postgres"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	dsn := fmt.Sprintf("postgres://postgres:secret@%s:%s/testdb?sslmode=disable", host, port.Port())

	var db *sqlx.DB
	for i := 0; i < 10; i++ {
		db, err = sqlx.Connect("pgx", dsn)
		if err == nil {
			break
		}
		time.Sleep(time.Second)
	}
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)

	ms, err := migrations.Embedded()
	require.NoError(t, err)
	require.NoError(t, migrations.NewRunner(db, ms).Up(ctx))

	return db
}

func createUser(t *testing.T, db *sqlx.DB, email string, role models.Role) *models.UserDB {
	t.Helper()
	hash := "$2a$10$hash"
	u, err := NewUserWriteRepository(db, nil).Create(context.Background(), &models.UserDB{
		Email: email, PasswordHash: &hash, Role: role, IsActive: true,
	})
	require.NoError(t, err)
	return u
}

func createBook(t *testing.T, db *sqlx.DB, sellerID uuid.UUID, title string, price string, qty int) *models.BookDB {
	t.Helper()
	in := models.BookInput{
		Title: title, Author: "Author", Condition: models.ConditionGood,
		Price: decimal.RequireFromString(price), Quantity: qty, Status: models.BookActive,
	}
	require.NoError(t, in.Validate())
	b, err := NewBookWriteRepository(db, nil).Create(context.Background(), sellerID, in)
	require.NoError(t, err)
	return b
}

func TestIntegration_ConcurrentUpsertCreatesOneRow(t *testing.T) {
	db := setupPostgres(t)
	repo := NewUserWriteRepository(db, nil)
	ctx := context.Background()

	emails := []string{"Race@Example.com", "race@example.com", "RACE@EXAMPLE.COM", " race@example.com "}

	var wg sync.WaitGroup
	ids := make([]uuid.UUID, 16)
	errs := make([]error, 16)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := fmt.Sprintf("Racer %d", i)
			u, _, err := repo.Upsert(ctx, emails[i%len(emails)], &name, nil, nil)
			errs[i] = err
			if err == nil {
				ids[i] = u.UserID
			}
		}(i)
	}
	wg.Wait()

	for i := range ids {
		require.NoError(t, errs[i])
		assert.Equal(t, ids[0], ids[i])
	}

	var count int
	require.NoError(t, db.Get(&count, `SELECT COUNT(*) FROM users WHERE lower(email) = 'race@example.com'`))
	assert.Equal(t, 1, count)

	var stored string
	require.NoError(t, db.Get(&stored, `SELECT email FROM users WHERE id = $1`, ids[0]))
	assert.Equal(t, "race@example.com", stored)
}

func TestIntegration_UpsertKeepsRoleAndCredentials(t *testing.T) {
	db := setupPostgres(t)
	seller := createUser(t, db, "seller@example.com", models.RoleSeller)

	name := "New"
	u, created, err := NewUserWriteRepository(db, nil).Upsert(context.Background(), "SELLER@example.com", &name, nil, nil)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, seller.UserID, u.UserID)
	assert.Equal(t, models.RoleSeller, u.Role)
	require.NotNil(t, u.PasswordHash)
	assert.Equal(t, "New", *u.FirstName)
}

func TestIntegration_EmailUniqueCaseInsensitiveAndReservedAfterSoftDelete(t *testing.T) {
	db := setupPostgres(t)
	ctx := context.Background()
	u := createUser(t, db, "dup@example.com", models.RoleBuyer)

	_, err := db.Exec(`INSERT INTO users (email) VALUES ('DUP@example.com')`)
	assert.ErrorIs(t, translateError(err), models.ErrDuplicateEmail)

	require.NoError(t, NewUserWriteRepository(db, nil).SoftDeleteCascade(ctx, u.UserID))
	_, err = NewUserReadRepository(db, nil).GetByEmail(ctx, "dup@example.com")
	assert.ErrorIs(t, err, models.ErrNotFound)

	hash := "x"
	_, err = NewUserWriteRepository(db, nil).Create(ctx, &models.UserDB{Email: "dup@example.com", PasswordHash: &hash, Role: models.RoleBuyer, IsActive: true})
	assert.ErrorIs(t, err, models.ErrDuplicateEmail)
}

func TestIntegration_ReviewConstraints(t *testing.T) {
	db := setupPostgres(t)
	ctx := context.Background()
	seller := createUser(t, db, "s@example.com", models.RoleSeller)
	buyer := createUser(t, db, "b@example.com", models.RoleBuyer)
	book := createBook(t, db, seller.UserID, "Dune", "10.00", 3)
	repo := NewReviewWriteRepository(db, nil)

	for _, rating := range []int{0, 6, -1} {
		_, err := repo.Create(ctx, buyer.UserID, models.ReviewInput{BookID: book.BookID, Rating: rating}, false)
		assert.ErrorIs(t, err, models.ErrConstraintViolation, "rating %d", rating)
		assert.ErrorContains(t, err, "ck_review_rating_range")
	}

	_, err := repo.Create(ctx, buyer.UserID, models.ReviewInput{BookID: book.BookID, Rating: 5}, false)
	require.NoError(t, err)

	_, err = repo.Create(ctx, buyer.UserID, models.ReviewInput{BookID: book.BookID, Rating: 4}, false)
	assert.ErrorIs(t, err, models.ErrConstraintViolation)
	assert.ErrorContains(t, err, "uq_review_book_user")

	summary, err := NewReviewReadRepository(db, nil).Summary(ctx, book.BookID)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Count)
	assert.Equal(t, 5.0, summary.Average)
}

func TestIntegration_MessageToSelfRejected(t *testing.T) {
	db := setupPostgres(t)
	u := createUser(t, db, "me@example.com", models.RoleBuyer)

	_, err := NewMessageWriteRepository(db, nil).Create(context.Background(), u.UserID, models.MessageInput{RecipientID: u.UserID, Content: "hi"})
	assert.ErrorIs(t, err, models.ErrConstraintViolation)
}

func placeOrder(t *testing.T, db *sqlx.DB, buyerID uuid.UUID, book *models.BookDB, qty int) *models.OrderDB {
	t.Helper()
	ctx := context.Background()
	type txKey struct{}
	getter := func(ctx context.Context) *sqlx.Tx { tx, _ := ctx.Value(txKey{}).(*sqlx.Tx); return tx }
	setter := func(ctx context.Context, tx *sqlx.Tx) context.Context { return context.WithValue(ctx, txKey{}, tx) }

	var order *models.OrderDB
	err := NewTxRunner(db, getter, setter).WithTx(ctx, func(ctx context.Context) error {
		books := NewBookWriteRepository(db, getter)
		locked, err := books.LockForPurchase(ctx, []uuid.UUID{book.BookID})
		if err != nil {
			return err
		}
		if err := books.DecrementStock(ctx, book.BookID, qty); err != nil {
			return err
		}
		bookID := locked[0].BookID
		item := models.OrderItemDB{
			BookID: &bookID, Quantity: qty, PriceAtPurchase: locked[0].Price,
			BookTitle: locked[0].Title, BookAuthor: locked[0].Author,
		}
		order, err = NewOrderWriteRepository(db, getter).Create(ctx, &models.OrderDB{
			BuyerID: buyerID, TotalAmount: item.Subtotal(), Items: []models.OrderItemDB{item},
		})
		return err
	})
	require.NoError(t, err)
	return order
}

func TestIntegration_HardDeleteSellerKeepsOrderSnapshot(t *testing.T) {
	db := setupPostgres(t)
	ctx := context.Background()
	seller := createUser(t, db, "seller@example.com", models.RoleSeller)
	buyer := createUser(t, db, "buyer@example.com", models.RoleBuyer)
	book := createBook(t, db, seller.UserID, "Middlemarch", "12.50", 2)

	order := placeOrder(t, db, buyer.UserID, book, 2)
	assert.Equal(t, "25.00", order.TotalAmount.StringFixed(2))

	sold, err := NewBookReadRepository(db, nil).GetByID(ctx, book.BookID)
	require.NoError(t, err)
	assert.Equal(t, 0, sold.Quantity)
	assert.Equal(t, models.BookSold, sold.Status)

	require.NoError(t, NewUserWriteRepository(db, nil).HardDelete(ctx, seller.UserID))

	_, err = NewBookReadRepository(db, nil).GetByID(ctx, book.BookID)
	assert.ErrorIs(t, err, models.ErrNotFound)

	got, err := NewOrderReadRepository(db, nil).GetByID(ctx, order.OrderID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Nil(t, got.Items[0].BookID)
	assert.Equal(t, "Middlemarch", got.Items[0].BookTitle)
	assert.Equal(t, "12.50", got.Items[0].PriceAtPurchase.StringFixed(2))

	require.NoError(t, NewUserWriteRepository(db, nil).HardDelete(ctx, buyer.UserID))
	var items int
	require.NoError(t, db.Get(&items, `SELECT COUNT(*) FROM order_items WHERE order_id = $1`, order.OrderID))
	assert.Equal(t, 0, items)
}

func TestIntegration_OrderTransitions(t *testing.T) {
	db := setupPostgres(t)
	ctx := context.Background()
	seller := createUser(t, db, "seller@example.com", models.RoleSeller)
	buyer := createUser(t, db, "buyer@example.com", models.RoleBuyer)
	book := createBook(t, db, seller.UserID, "Emma", "8.00", 5)
	order := placeOrder(t, db, buyer.UserID, book, 1)
	repo := NewOrderWriteRepository(db, nil)

	_, err := repo.Transition(ctx, order.OrderID, models.OrderPaid, models.PaymentRefs{})
	assert.ErrorIs(t, err, models.ErrInvalidTransition)

	session := "cs_1"
	_, err = repo.Transition(ctx, order.OrderID, models.OrderPaymentProcessing, models.PaymentRefs{SessionID: &session})
	require.NoError(t, err)

	payment := "pi_1"
	paid, err := repo.Transition(ctx, order.OrderID, models.OrderPaid, models.PaymentRefs{PaymentID: &payment})
	require.NoError(t, err)
	assert.Equal(t, models.OrderPaid, paid.Status)
	assert.Equal(t, "cs_1", *paid.PaymentSessionID)

	purchased, err := NewOrderReadRepository(db, nil).HasPurchased(ctx, buyer.UserID, book.BookID)
	require.NoError(t, err)
	assert.True(t, purchased)

	other := placeOrder(t, db, buyer.UserID, book, 1)
	_, err = repo.Transition(ctx, other.OrderID, models.OrderPaymentProcessing, models.PaymentRefs{})
	require.NoError(t, err)
	_, err = repo.Transition(ctx, other.OrderID, models.OrderPaid, models.PaymentRefs{PaymentID: &payment})
	assert.ErrorIs(t, err, models.ErrConstraintViolation)
	assert.True(t, strings.Contains(err.Error(), "uq_orders_payment_id"))
}

func TestIntegration_BookListFilters(t *testing.T) {
	db := setupPostgres(t)
	ctx := context.Background()
	seller := createUser(t, db, "seller@example.com", models.RoleSeller)
	for i, price := range []string{"5.00", "15.00", "25.00"} {
		createBook(t, db, seller.UserID, fmt.Sprintf("Book %d", i), price, 1)
	}

	minPrice := decimal.RequireFromString("10")
	books, total, err := NewBookReadRepository(db, nil).List(ctx, models.BookFilter{MinPrice: &minPrice, PerPage: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, books, 1)

	_, err = NewBookWriteRepository(db, nil).SetStatus(ctx, books[0].BookID, models.BookArchived, []models.BookStatus{models.BookDraft})
	assert.ErrorIs(t, err, models.ErrInvalidTransition)
}
