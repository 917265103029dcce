package factory

import (
	"io"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/partygames/internal/dependencies/mocks"
	"github.com/mcoot/partygames/internal/services/auth"
	"github.com/mcoot/partygames/internal/services/preferences"
	"github.com/mcoot/partygames/internal/services/session"
	"github.com/mcoot/partygames/internal/services/words"
	"github.com/mcoot/partygames/internal/storage/memory"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App configured for testing with mocked dependencies.
// It runs offline, hashes tokens at the minimum bcrypt cost and does not
// tick timers in the background; call SessionController.Tick instead.
func NewTestApp() *TestApp {
	return NewTestAppWithSupplier(nil)
}

// NewTestAppWithSupplier is NewTestApp with a word supplier, e.g. a Client
// pointed at an httptest server
func NewTestAppWithSupplier(supplier words.Supplier) *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	var newSupplier supplierFunc
	if supplier != nil {
		newSupplier = func(*preferences.Service) words.Supplier { return supplier }
	}

	app := newWithDependencies(store, mockClock, mockRandom, newSupplier,
		auth.Config{TokenCost: bcrypt.MinCost}, session.Config{}, logger)

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}
