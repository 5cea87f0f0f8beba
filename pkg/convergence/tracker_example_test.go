package convergence

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type snapshot struct {
	completed int
	remaining []string
}

var _ = Describe("Tracker", func() {
	var (
		set       *Set
		tracker   *Tracker
		snapshots []snapshot
	)

	BeforeEach(func() {
		set = NewSet([]string{"vm-a", "vm-b"})
		snapshots = nil
		tracker = &Tracker{
			Label: "Started",
			Sleep: func(context.Context, time.Duration) error { return nil },
			Progress: func(completed, total int, _ string) {
				Expect(total).To(Equal(2))
				snapshots = append(snapshots, snapshot{completed, set.Remaining()})
			},
		}
	})

	Context("when two VMs start at different speeds", func() {
		It("moves each VM to completed in the round it reports running", func() {
			query, _ := scripted(map[string][]string{
				"vm-a": {"VM starting", "VM running"},
				"vm-b": {"VM starting", "VM starting", "VM running"},
			})

			rounds, err := tracker.Converge(context.Background(), set, TargetRunning, query)

			Expect(err).NotTo(HaveOccurred())
			Expect(rounds).To(Equal(3))
			Expect(snapshots).To(HaveLen(3))
			Expect(snapshots[0].completed).To(Equal(0))
			Expect(snapshots[0].remaining).To(Equal([]string{"vm-a", "vm-b"}))
			Expect(snapshots[1].completed).To(Equal(1))
			Expect(snapshots[1].remaining).To(Equal([]string{"vm-b"}))
			Expect(snapshots[2].completed).To(Equal(2))
			Expect(snapshots[2].remaining).To(BeEmpty())
		})
	})

	Context("when the context is canceled between rounds", func() {
		It("stops without completing the set", func() {
			ctx, cancel := context.WithCancel(context.Background())
			tracker.Sleep = func(ctx context.Context, _ time.Duration) error {
				cancel()
				return ctx.Err()
			}

			_, err := tracker.Converge(ctx, set, TargetRunning, func(context.Context, string) (string, error) {
				return "VM starting", nil
			})

			Expect(err).To(MatchError(context.Canceled))
			Expect(set.Done()).To(BeFalse())
		})
	})
})
