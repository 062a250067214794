package assets

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcanaland/gatherer/internal/card"
	"github.com/arcanaland/gatherer/internal/errors"
	"github.com/arcanaland/gatherer/internal/logger"
	"github.com/arcanaland/gatherer/internal/scryfall"
)

func testCards() []card.Card {
	return []card.Card{
		{ID: "a1", Name: "Forest", ImageURI: "https://img.test/a1.png"},
		{ID: "b2", Name: "Island", ImageURI: "https://img.test/b2.png"},
		{ID: "c3", Name: "Swamp", ImageURI: "https://img.test/c3.png"},
	}
}

func serveAll(f *scryfall.Fake, cards []card.Card) {
	for _, c := range cards {
		f.Serve(c.ImageURI, []byte("image of "+c.ID))
	}
}

func TestSyncAll_DownloadsEveryCard(t *testing.T) {
	dir := t.TempDir()
	fake := scryfall.NewFake()
	serveAll(fake, testCards())

	stats, err := NewDownloader(fake, 0, logger.Discard()).SyncAll(context.Background(), testCards(), dir)
	require.NoError(t, err)

	assert.Equal(t, Stats{Downloaded: 3}, stats)
	assert.Equal(t, []string{
		"https://img.test/a1.png",
		"https://img.test/b2.png",
		"https://img.test/c3.png",
	}, fake.Calls())

	b, err := os.ReadFile(filepath.Join(dir, "b2.png"))
	require.NoError(t, err)
	assert.Equal(t, "image of b2", string(b))
}

func TestSyncAll_SkipsExistingFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(Path(dir, "a1"), []byte("old"), 0o644))

	fake := scryfall.NewFake()
	serveAll(fake, testCards())

	var seen []string
	var skips []bool
	d := NewDownloader(fake, 0, logger.Discard())
	d.OnProgress(func(done, total int, c card.Card, skipped bool) {
		assert.Equal(t, 3, total)
		seen = append(seen, c.ID)
		skips = append(skips, skipped)
	})

	stats, err := d.SyncAll(context.Background(), testCards(), dir)
	require.NoError(t, err)

	assert.Equal(t, Stats{Downloaded: 2, Skipped: 1}, stats)
	assert.Equal(t, 0, fake.CallCount("https://img.test/a1.png"))
	assert.Equal(t, []string{"https://img.test/b2.png", "https://img.test/c3.png"}, fake.Calls())
	assert.Equal(t, []string{"a1", "b2", "c3"}, seen)
	assert.Equal(t, []bool{true, false, false}, skips)

	b, err := os.ReadFile(Path(dir, "a1"))
	require.NoError(t, err)
	assert.Equal(t, "old", string(b), "existing asset must not be replaced")
}

func TestSyncAll_SecondRunIsNoop(t *testing.T) {
	dir := t.TempDir()
	fake := scryfall.NewFake()
	serveAll(fake, testCards())
	d := NewDownloader(fake, 0, logger.Discard())

	_, err := d.SyncAll(context.Background(), testCards(), dir)
	require.NoError(t, err)

	stats, err := d.SyncAll(context.Background(), testCards(), dir)
	require.NoError(t, err)
	assert.Equal(t, Stats{Skipped: 3}, stats)
	assert.Len(t, fake.Calls(), 3)
}

func TestSyncAll_AbortsOnFirstError(t *testing.T) {
	dir := t.TempDir()
	cards := testCards()
	fake := scryfall.NewFake()
	serveAll(fake, cards)
	fake.Fail(cards[1].ImageURI, errors.Network("connection reset", nil))

	stats, err := NewDownloader(fake, 0, logger.Discard()).SyncAll(context.Background(), cards, dir)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNetwork))
	assert.Contains(t, err.Error(), "b2")

	assert.Equal(t, Stats{Downloaded: 1}, stats)
	assert.Equal(t, 0, fake.CallCount(cards[2].ImageURI), "no record after the failure may be attempted")

	_, statErr := os.Stat(Path(dir, "c3"))
	assert.True(t, os.IsNotExist(statErr))
	_, statErr = os.Stat(Path(dir, "b2"))
	assert.True(t, os.IsNotExist(statErr), "a refused request leaves no file")
}

func TestSyncAll_RejectsUnsafeIDs(t *testing.T) {
	dir := t.TempDir()
	cards := []card.Card{{ID: "../escape", Name: "x", ImageURI: "u"}}
	fake := scryfall.NewFake().Serve("u", []byte("x"))

	_, err := NewDownloader(fake, 0, logger.Discard()).SyncAll(context.Background(), cards, dir)
	assert.True(t, errors.Is(err, errors.ErrDecode))
	assert.Empty(t, fake.Calls())
}

// slowTransport serves every URL with a body that takes readDelay to read and
// records when each request started and when its body was closed.
type slowTransport struct {
	readDelay time.Duration

	mu      sync.Mutex
	started []time.Time
	closed  []time.Time
}

func (s *slowTransport) FetchJSON(ctx context.Context, url string, v any) error {
	return errors.Network("GET "+url, nil)
}

func (s *slowTransport) FetchStream(ctx context.Context, url string) (io.ReadCloser, error) {
	s.mu.Lock()
	s.started = append(s.started, time.Now())
	s.mu.Unlock()
	return &slowBody{t: s, r: strings.NewReader("image"), delay: s.readDelay}, nil
}

type slowBody struct {
	t     *slowTransport
	r     io.Reader
	delay time.Duration
	slept bool
}

func (b *slowBody) Read(p []byte) (int, error) {
	if !b.slept {
		b.slept = true
		time.Sleep(b.delay)
	}
	return b.r.Read(p)
}

func (b *slowBody) Close() error {
	b.t.mu.Lock()
	b.t.closed = append(b.t.closed, time.Now())
	b.t.mu.Unlock()
	return nil
}

func TestSyncAll_PausesAfterEachDownload(t *testing.T) {
	dir := t.TempDir()
	cards := testCards()[:2]

	// Downloads slower than the interval must still be followed by a full pause.
	const interval = 50 * time.Millisecond
	slow := &slowTransport{readDelay: 3 * interval}

	_, err := NewDownloader(slow, interval, logger.Discard()).SyncAll(context.Background(), cards, dir)
	require.NoError(t, err)

	require.Len(t, slow.started, 2)
	require.Len(t, slow.closed, 2)
	gap := slow.started[1].Sub(slow.closed[0])
	assert.GreaterOrEqual(t, gap, interval, "gap between end of first download and start of second")
}

func TestSyncAll_PauseStopsOnCancel(t *testing.T) {
	dir := t.TempDir()
	fake := scryfall.NewFake()
	serveAll(fake, testCards())

	ctx, cancel := context.WithCancel(context.Background())
	d := NewDownloader(fake, time.Hour, logger.Discard())

	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	_, err := d.SyncAll(ctx, testCards(), dir)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNetwork))
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.Equal(t, []string{"https://img.test/a1.png"}, fake.Calls())
}

func TestSyncAll_SkipsDoNotWait(t *testing.T) {
	dir := t.TempDir()
	cards := testCards()
	for _, c := range cards {
		require.NoError(t, os.WriteFile(Path(dir, c.ID), []byte("x"), 0o644))
	}

	start := time.Now()
	stats, err := NewDownloader(scryfall.NewFake(), time.Second, logger.Discard()).SyncAll(context.Background(), cards, dir)
	require.NoError(t, err)

	assert.Equal(t, 3, stats.Skipped)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestSyncAll_CanceledContext(t *testing.T) {
	dir := t.TempDir()
	fake := scryfall.NewFake()
	serveAll(fake, testCards())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewDownloader(fake, 0, logger.Discard()).SyncAll(ctx, testCards(), dir)
	assert.Error(t, err)
}
