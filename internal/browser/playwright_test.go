package browser

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAwaitReturnsResult(t *testing.T) {
	v, err := await(context.Background(), func() (int, error) {
		return 42, nil
	}, func(int) {
		t.Error("discard must not run for a delivered result")
	})
	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestAwaitDiscardsLateResult(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	release := make(chan struct{})
	discarded := make(chan int, 1)

	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	v, err := await(ctx, func() (int, error) {
		<-release
		return 7, nil
	}, func(v int) {
		discarded <- v
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, v)

	close(release)
	select {
	case got := <-discarded:
		assert.Equal(t, 7, got)
	case <-time.After(time.Second):
		t.Fatal("late result was not discarded")
	}
}

func TestAwaitLateErrorNotDiscarded(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	done := make(chan struct{})

	_, err := await(ctx, func() (int, error) {
		defer close(done)
		time.Sleep(10 * time.Millisecond)
		return 0, errors.New("launch failed")
	}, func(int) {
		t.Error("failed results have nothing to discard")
	})
	require.ErrorIs(t, err, context.Canceled)
	<-done
	time.Sleep(10 * time.Millisecond)
}

// closingContext records Close calls; every other method is unused.
type closingContext struct {
	playwright.BrowserContext
	closes int
}

func (c *closingContext) Close(...playwright.BrowserContextCloseOptions) error {
	c.closes++
	return nil
}

func TestPlaywrightBrowserCloseRemovesTempProfile(t *testing.T) {
	tempDir, err := os.MkdirTemp(t.TempDir(), "profile-")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "Local State"), []byte("{}"), 0644))

	bctx := &closingContext{}
	b := &playwrightBrowser{context: bctx, tempDir: tempDir}
	require.True(t, b.IsConnected())

	require.NoError(t, b.Close(context.Background()))
	require.NoError(t, b.Close(context.Background()))

	assert.Equal(t, 1, bctx.closes)
	assert.False(t, b.IsConnected())
	_, err = os.Stat(tempDir)
	assert.True(t, os.IsNotExist(err), "temporary profile should be removed")
}

func TestPlaywrightBrowserNoOutput(t *testing.T) {
	b := &playwrightBrowser{context: &closingContext{}}
	assert.ErrorIs(t, b.PipeOutput(os.Stderr), ErrOutputUnavailable)
	assert.Nil(t, b.Process())
}

func TestPlaywrightDriverDevtoolsNotice(t *testing.T) {
	var buf syncBuffer
	d := NewPlaywrightDriver(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	d.logDevtoolsUnsupported(false)
	assert.Empty(t, buf.String())

	d.logDevtoolsUnsupported(true)
	assert.Contains(t, buf.String(), "devtools targets are not exposed as pages by playwright")
}
