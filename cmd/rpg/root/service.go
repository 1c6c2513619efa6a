package root

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/reedy055/rpg/internal/engine"
	"github.com/reedy055/rpg/internal/storage"
	"github.com/reedy055/rpg/internal/ui"
)

// termNotifier renders engine notifications on stderr so they do not
// mix with command output. Haptics and bursts degrade to text.
type termNotifier struct{}

func (termNotifier) Toast(msg string) {
	fmt.Fprintln(os.Stderr, ui.Muted.Render(msg))
}

func (termNotifier) Banner(msg string) {
	fmt.Fprintln(os.Stderr, ui.BannerStyle.Render(ui.IconSparkle+" "+msg))
}

func (termNotifier) Haptic(int) {}

func (termNotifier) Burst() {
	fmt.Fprintln(os.Stderr, ui.Gold.Render("🎉 🎉 🎉"))
}

// openService loads state and runs the boundary check, mirroring the
// application boot sequence.
func openService(ctx context.Context) (*engine.Service, func(), error) {
	path, err := storage.ResolveDBPath()
	if err != nil {
		return nil, nil, err
	}
	db, err := storage.Open(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = db.Close()
	}

	svc := engine.NewServiceWith(
		storage.NewStateStore(db),
		engine.SystemClock,
		termNotifier{},
		rand.New(rand.NewSource(time.Now().UnixNano())),
	)
	if err := svc.Load(ctx); err != nil {
		cleanup()
		return nil, nil, err
	}
	if err := svc.EnsureRollover(ctx); err != nil {
		cleanup()
		return nil, nil, err
	}
	return svc, cleanup, nil
}
