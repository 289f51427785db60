package ledger

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/pulso-app/pulso/internal/domain"
	"github.com/pulso-app/pulso/internal/infra/sqlite"
)

func newTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db, err := sqlite.Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func seedUser(t *testing.T, db *sqlite.DB, id, celular string, saldo int64) {
	t.Helper()
	err := db.CreateUser(context.Background(), &domain.User{
		ID: id, Nombre: "Usuario " + id, Celular: celular, Saldo: saldo,
		Contactos: []string{}, CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("seed user %s: %v", id, err)
	}
}

func seedExperience(t *testing.T, db *sqlite.DB, id string, valor int64) {
	t.Helper()
	err := db.CreateExperience(context.Background(), &domain.Experience{
		ID: id, Nombre: "Experiencia " + id, Valor: valor, CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("seed experience %s: %v", id, err)
	}
}

func seedProduct(t *testing.T, db *sqlite.DB, id string, valor, cantidad int64) {
	t.Helper()
	err := db.CreateProduct(context.Background(), &domain.Product{
		ID: id, Nombre: "Producto " + id, Valor: valor, Cantidad: cantidad, CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("seed product %s: %v", id, err)
	}
}

func recordCount(t *testing.T, db *sqlite.DB) int64 {
	t.Helper()
	n, err := db.CountRecords(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	return n
}

// ─── Recharge ───────────────────────────────────────────────────────────────

func TestRechargeSuccess(t *testing.T) {
	db := newTestDB(t)
	e := New(db)
	ctx := context.Background()

	seedUser(t, db, "u1", "3001234567", 1000)
	seedExperience(t, db, "e1", 50000)

	rec, err := e.Recharge(ctx, "3001234567", "e1")
	if err != nil {
		t.Fatalf("Recharge() error: %v", err)
	}
	if rec.Estado != domain.StatusExitoso {
		t.Fatalf("Estado = %s (%s), want Exitoso", rec.Estado, rec.MensajeError)
	}
	if rec.Valor != 50000 {
		t.Errorf("Valor = %d, want 50000", rec.Valor)
	}
	if rec.Tipo != domain.TxRecarga {
		t.Errorf("Tipo = %s, want RECARGA", rec.Tipo)
	}
	if rec.IDUser != "u1" || rec.NombreUsuario != "Usuario u1" {
		t.Errorf("user fields = %s/%s", rec.IDUser, rec.NombreUsuario)
	}
	if rec.IDExperiencia != "e1" || rec.NombreExperiencia != "Experiencia e1" {
		t.Errorf("experience fields = %s/%s", rec.IDExperiencia, rec.NombreExperiencia)
	}
	if rec.CreatedAt.IsZero() {
		t.Error("CreatedAt not assigned")
	}

	u, err := db.GetUser(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if u.Saldo != 51000 {
		t.Errorf("saldo = %d, want 51000", u.Saldo)
	}
	if n := recordCount(t, db); n != 1 {
		t.Errorf("record count = %d, want 1", n)
	}
}

func TestRechargeUnknownPhone(t *testing.T) {
	db := newTestDB(t)
	e := New(db)
	ctx := context.Background()

	seedExperience(t, db, "e1", 50000)

	rec, err := e.Recharge(ctx, "0000000000", "e1")
	if err != nil {
		t.Fatalf("Recharge() error: %v", err)
	}
	if rec.Estado != domain.StatusFallido {
		t.Fatalf("Estado = %s, want Fallido", rec.Estado)
	}
	if rec.MensajeError != domain.ReasonUserNotFound {
		t.Errorf("MensajeError = %q, want %q", rec.MensajeError, domain.ReasonUserNotFound)
	}
	if rec.Valor != 0 || rec.IDUser != "" || rec.NombreUsuario != "" {
		t.Errorf("record = %+v, user fields should be empty and valor 0", rec)
	}

	// The miss is auditable but creates no user.
	users, err := db.ListUsers(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(users) != 0 {
		t.Errorf("users = %d, want 0", len(users))
	}
	if n := recordCount(t, db); n != 1 {
		t.Errorf("record count = %d, want 1", n)
	}
}

func TestRechargeExperienceMissing(t *testing.T) {
	db := newTestDB(t)
	e := New(db)

	seedUser(t, db, "u1", "300", 1000)

	rec, err := e.Recharge(context.Background(), "300", "ghost")
	if err != nil {
		t.Fatalf("Recharge() error: %v", err)
	}
	if rec.MensajeError != domain.ReasonExperienceNotFound {
		t.Errorf("MensajeError = %q, want %q", rec.MensajeError, domain.ReasonExperienceNotFound)
	}
	u, _ := db.GetUser(context.Background(), "u1")
	if u.Saldo != 1000 {
		t.Errorf("saldo changed to %d on failed recharge", u.Saldo)
	}
}

func TestRechargeZeroValueExperience(t *testing.T) {
	db := newTestDB(t)
	e := New(db)

	seedUser(t, db, "u1", "300", 1000)
	seedExperience(t, db, "free", 0)

	// A zero price never silently no-ops.
	rec, err := e.Recharge(context.Background(), "300", "free")
	if err != nil {
		t.Fatalf("Recharge() error: %v", err)
	}
	if rec.Estado != domain.StatusFallido || rec.MensajeError != domain.ReasonInvalidExperience {
		t.Errorf("record = %s/%q, want Fallido/%q", rec.Estado, rec.MensajeError, domain.ReasonInvalidExperience)
	}
	u, _ := db.GetUser(context.Background(), "u1")
	if u.Saldo != 1000 {
		t.Errorf("saldo = %d, want unchanged 1000", u.Saldo)
	}
}

// ─── Debit ──────────────────────────────────────────────────────────────────

func TestDebitSuccess(t *testing.T) {
	db := newTestDB(t)
	e := New(db)
	ctx := context.Background()

	seedUser(t, db, "u1", "300", 5000)
	seedProduct(t, db, "p1", 3000, 2)

	rec, err := e.Debit(ctx, "300", "p1")
	if err != nil {
		t.Fatalf("Debit() error: %v", err)
	}
	if rec.Estado != domain.StatusExitoso || rec.Valor != 3000 {
		t.Fatalf("record = %s valor %d (%s), want Exitoso/3000", rec.Estado, rec.Valor, rec.MensajeError)
	}
	if rec.IDProducto != "p1" || rec.NombreProducto != "Producto p1" {
		t.Errorf("product fields = %s/%s", rec.IDProducto, rec.NombreProducto)
	}

	// Balance and inventory move together.
	u, _ := db.GetUser(ctx, "u1")
	if u.Saldo != 2000 {
		t.Errorf("saldo = %d, want 2000", u.Saldo)
	}
	p, _ := db.GetProduct(ctx, "p1")
	if p.Cantidad != 1 {
		t.Errorf("cantidad = %d, want 1", p.Cantidad)
	}
}

func TestDebitInsufficientBalance(t *testing.T) {
	db := newTestDB(t)
	e := New(db)
	ctx := context.Background()

	seedUser(t, db, "u1", "300", 1000)
	seedProduct(t, db, "p1", 3000, 5)

	rec, err := e.Debit(ctx, "300", "p1")
	if err != nil {
		t.Fatalf("Debit() error: %v", err)
	}
	if rec.Estado != domain.StatusFallido {
		t.Fatalf("Estado = %s, want Fallido", rec.Estado)
	}
	if !strings.Contains(rec.MensajeError, "disponible: 1000") || !strings.Contains(rec.MensajeError, "requerido: 3000") {
		t.Errorf("MensajeError = %q, want both amounts in the reason", rec.MensajeError)
	}

	u, _ := db.GetUser(ctx, "u1")
	p, _ := db.GetProduct(ctx, "p1")
	if u.Saldo != 1000 || p.Cantidad != 5 {
		t.Errorf("mutation on failed debit: saldo=%d cantidad=%d", u.Saldo, p.Cantidad)
	}
}

func TestDebitOutOfInventory(t *testing.T) {
	db := newTestDB(t)
	e := New(db)
	ctx := context.Background()

	seedUser(t, db, "u1", "300", 10000)
	seedProduct(t, db, "p1", 3000, 0)

	rec, err := e.Debit(ctx, "300", "p1")
	if err != nil {
		t.Fatalf("Debit() error: %v", err)
	}
	if rec.Estado != domain.StatusFallido || rec.MensajeError != domain.ReasonOutOfInventory {
		t.Errorf("record = %s/%q, want Fallido/%q", rec.Estado, rec.MensajeError, domain.ReasonOutOfInventory)
	}

	u, _ := db.GetUser(ctx, "u1")
	p, _ := db.GetProduct(ctx, "p1")
	if u.Saldo != 10000 || p.Cantidad != 0 {
		t.Errorf("mutation on out-of-inventory debit: saldo=%d cantidad=%d", u.Saldo, p.Cantidad)
	}
}

func TestDebitProductMissing(t *testing.T) {
	db := newTestDB(t)
	e := New(db)

	seedUser(t, db, "u1", "300", 10000)

	rec, err := e.Debit(context.Background(), "300", "ghost")
	if err != nil {
		t.Fatalf("Debit() error: %v", err)
	}
	if rec.MensajeError != domain.ReasonProductNotFound {
		t.Errorf("MensajeError = %q, want %q", rec.MensajeError, domain.ReasonProductNotFound)
	}
}

func TestDebitExactBalance(t *testing.T) {
	db := newTestDB(t)
	e := New(db)
	ctx := context.Background()

	seedUser(t, db, "u1", "300", 3000)
	seedProduct(t, db, "p1", 3000, 1)

	rec, err := e.Debit(ctx, "300", "p1")
	if err != nil {
		t.Fatalf("Debit() error: %v", err)
	}
	if rec.Estado != domain.StatusExitoso {
		t.Fatalf("Estado = %s (%s), exact balance must succeed", rec.Estado, rec.MensajeError)
	}
	u, _ := db.GetUser(ctx, "u1")
	if u.Saldo != 0 {
		t.Errorf("saldo = %d, want 0", u.Saldo)
	}
}

// Two terminals race for the last unit: exactly one debit may succeed.
func TestDebitConcurrentLastUnit(t *testing.T) {
	db := newTestDB(t)
	e := New(db)
	ctx := context.Background()

	seedUser(t, db, "u1", "300", 100000)
	seedProduct(t, db, "p1", 3000, 1)

	const terminals = 4
	var wg sync.WaitGroup
	results := make([]*domain.TransactionRecord, terminals)
	errs := make([]error, terminals)
	for i := 0; i < terminals; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = e.Debit(ctx, "300", "p1")
		}(i)
	}
	wg.Wait()

	var ok, fail int
	for i := 0; i < terminals; i++ {
		if errs[i] != nil {
			t.Fatalf("terminal %d fatal error: %v", i, errs[i])
		}
		if results[i].Exitoso() {
			ok++
		} else {
			fail++
		}
	}
	if ok != 1 {
		t.Errorf("successful debits = %d, want exactly 1", ok)
	}
	if fail != terminals-1 {
		t.Errorf("failed debits = %d, want %d", fail, terminals-1)
	}

	u, _ := db.GetUser(ctx, "u1")
	if u.Saldo != 97000 {
		t.Errorf("saldo = %d, want 97000 (one debit applied)", u.Saldo)
	}
	p, _ := db.GetProduct(ctx, "p1")
	if p.Cantidad != 0 {
		t.Errorf("cantidad = %d, want 0", p.Cantidad)
	}
	if n := recordCount(t, db); n != terminals {
		t.Errorf("record count = %d, want %d (one per attempt)", n, terminals)
	}
}

// ─── Donate ─────────────────────────────────────────────────────────────────

func TestDonateSuccess(t *testing.T) {
	db := newTestDB(t)
	e := New(db)
	ctx := context.Background()

	seedUser(t, db, "u1", "300", 10000)

	rec, err := e.Donate(ctx, "300", 4000, "g1", "Obra Azul")
	if err != nil {
		t.Fatalf("Donate() error: %v", err)
	}
	if rec.Estado != domain.StatusExitoso || rec.Valor != 4000 {
		t.Fatalf("record = %s valor %d (%s)", rec.Estado, rec.Valor, rec.MensajeError)
	}
	// Gallery work rides in the experience columns.
	if rec.IDExperiencia != "g1" || rec.NombreExperiencia != "Obra Azul" {
		t.Errorf("work fields = %s/%s", rec.IDExperiencia, rec.NombreExperiencia)
	}
	u, _ := db.GetUser(ctx, "u1")
	if u.Saldo != 6000 {
		t.Errorf("saldo = %d, want 6000", u.Saldo)
	}
}

func TestDonateInvalidAmounts(t *testing.T) {
	db := newTestDB(t)
	e := New(db)
	ctx := context.Background()

	seedUser(t, db, "u1", "300", 10000)

	for _, monto := range []int64{0, -1, -5000} {
		rec, err := e.Donate(ctx, "300", monto, "g1", "Obra")
		if err != nil {
			t.Fatalf("Donate(%d) error: %v", monto, err)
		}
		if rec.Estado != domain.StatusFallido || rec.MensajeError != domain.ReasonInvalidDonation {
			t.Errorf("Donate(%d) = %s/%q, want Fallido/%q", monto, rec.Estado, rec.MensajeError, domain.ReasonInvalidDonation)
		}
	}
	u, _ := db.GetUser(ctx, "u1")
	if u.Saldo != 10000 {
		t.Errorf("saldo = %d after invalid donations, want 10000", u.Saldo)
	}
}

func TestDonateInsufficientBalance(t *testing.T) {
	db := newTestDB(t)
	e := New(db)

	seedUser(t, db, "u1", "300", 2500)

	rec, err := e.Donate(context.Background(), "300", 9000, "g1", "Obra")
	if err != nil {
		t.Fatalf("Donate() error: %v", err)
	}
	if rec.Estado != domain.StatusFallido {
		t.Fatalf("Estado = %s, want Fallido", rec.Estado)
	}
	if !strings.Contains(rec.MensajeError, "disponible: 2500") || !strings.Contains(rec.MensajeError, "requerido: 9000") {
		t.Errorf("MensajeError = %q", rec.MensajeError)
	}
}

func TestDonateUnknownPhoneKeepsAmount(t *testing.T) {
	db := newTestDB(t)
	e := New(db)

	rec, err := e.Donate(context.Background(), "0000000000", 7000, "g1", "Obra")
	if err != nil {
		t.Fatalf("Donate() error: %v", err)
	}
	if rec.MensajeError != domain.ReasonUserNotFound {
		t.Errorf("MensajeError = %q", rec.MensajeError)
	}
	if rec.Valor != 7000 {
		t.Errorf("Valor = %d, want attempted amount 7000", rec.Valor)
	}
}

// ─── Fatal Errors ───────────────────────────────────────────────────────────

// faultStore fails every transaction; no record may survive.
type faultStore struct {
	err error
}

func (f *faultStore) FindUserByPhone(context.Context, string) (*domain.User, error) {
	return &domain.User{ID: "u1", Nombre: "X", Celular: "300", Saldo: 100}, nil
}
func (f *faultStore) WithTx(context.Context, func(domain.LedgerTx) error) error { return f.err }
func (f *faultStore) GetRecord(context.Context, string) (*domain.TransactionRecord, error) {
	return nil, domain.ErrNotFound
}

func TestFatalErrorReturnsNoRecord(t *testing.T) {
	fault := errors.New("storage down")
	e := New(&faultStore{err: fault})

	rec, err := e.Recharge(context.Background(), "300", "e1")
	if !errors.Is(err, fault) {
		t.Fatalf("error = %v, want wrapped storage fault", err)
	}
	if rec != nil {
		t.Errorf("record = %+v, want nil after fatal error", rec)
	}
}

func TestTxConflictSurfacesAsFatal(t *testing.T) {
	e := New(&faultStore{err: domain.ErrTxConflict})

	_, err := e.Debit(context.Background(), "300", "p1")
	if !errors.Is(err, domain.ErrTxConflict) {
		t.Errorf("error = %v, want ErrTxConflict", err)
	}
}

// ─── Record-per-Attempt ─────────────────────────────────────────────────────

func TestEveryAttemptCommitsOneRecord(t *testing.T) {
	db := newTestDB(t)
	e := New(db)
	ctx := context.Background()

	seedUser(t, db, "u1", "300", 1000)
	seedProduct(t, db, "p1", 500, 1)
	seedExperience(t, db, "e1", 2000)

	// Mixed attempts: successes and every failure class.
	e.Recharge(ctx, "300", "e1")       // ok
	e.Recharge(ctx, "300", "ghost")    // experience missing
	e.Recharge(ctx, "0000", "e1")      // user missing
	e.Debit(ctx, "300", "p1")          // ok
	e.Debit(ctx, "300", "p1")          // out of inventory
	e.Donate(ctx, "300", -1, "g", "x") // invalid amount
	e.Donate(ctx, "300", 99999, "g", "x") // insufficient

	if n := recordCount(t, db); n != 7 {
		t.Errorf("record count = %d, want 7 (one per attempt)", n)
	}
}
