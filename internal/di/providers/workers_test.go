package providers

import (
	"context"
	"testing"
	"time"

	"github.com/samber/do/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/librarysites/librarysites-server/internal/config"
	"github.com/librarysites/librarysites-server/internal/domain"
	"github.com/librarysites/librarysites-server/internal/kv"
	"github.com/librarysites/librarysites-server/internal/logger"
	"github.com/librarysites/librarysites-server/internal/store"
)

func setupInjector(t *testing.T, interval time.Duration) (do.Injector, *store.Store) {
	t.Helper()

	backend, err := kv.NewBadger(kv.BadgerOptions{InMemory: true})
	require.NoError(t, err)
	st := store.New(backend, nil)
	t.Cleanup(func() { _ = st.Close() })

	injector := do.New()
	do.ProvideValue(injector, &config.Config{Jobs: config.JobsConfig{ReconcileInterval: interval}})
	do.ProvideValue(injector, logger.Discard())
	do.ProvideValue(injector, &StoreHandle{Store: st})
	return injector, st
}

func TestProvideReconcileJob_Disabled(t *testing.T) {
	injector, _ := setupInjector(t, 0)

	job, err := ProvideReconcileJob(injector)
	require.NoError(t, err)
	assert.Nil(t, job.cancel)
	assert.NoError(t, job.Shutdown())
}

func TestProvideReconcileJob_SweepsOnStart(t *testing.T) {
	injector, st := setupInjector(t, time.Hour)
	ctx := context.Background()

	// A mapping whose tenant record was never created.
	require.NoError(t, st.SaveLibraryDetails(ctx, "gone", &domain.LibraryDetails{Name: "Gone", CustomDomain: "old.org"}))
	sub, err := st.GetSubdomainFromCustomDomain(ctx, "old.org")
	require.NoError(t, err)
	require.Equal(t, "gone", sub)

	job, err := ProvideReconcileJob(injector)
	require.NoError(t, err)
	t.Cleanup(func() { _ = job.Shutdown() })

	assert.Eventually(t, func() bool {
		sub, err := st.GetSubdomainFromCustomDomain(ctx, "old.org")
		return err == nil && sub == ""
	}, 2*time.Second, 20*time.Millisecond)
}
