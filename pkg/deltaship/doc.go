// Package deltaship provides an embeddable state-synchronization session.
//
// A session holds a table of fixed-size records on the sending side and a
// mirror on the receiving side. Every frame the sender's table changes a
// little; the encoder XORs it against the previous frame and run-length codes
// the result, and the decoder rebuilds an exact copy.
//
// # Basic Usage
//
//	cfg := deltaship.DefaultConfig()
//	cfg.Frames = 500
//	cfg.Seed = 42
//
//	s, err := deltaship.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	stats, err := s.Run(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("%.1f%% of raw size\n", stats.Ratio())
//
// # Tuning
//
// [Session.SetXOR] and [Session.SetMaxChanges] may be called from any
// goroutine while Run is in progress. Changes take effect at the next frame
// boundary on both sides at once.
//
// # Codec Only
//
// [NewEncoder] and [NewDecoder] expose the codec without the session, for
// callers that carry chunks over their own transport. Pair them with
// [github.com/bft-labs/deltaship/pkg/wire] for a byte encoding.
//
// # Plugins
//
// Plugins registered with [WithPlugin] are initialized when Run starts and
// shut down in reverse order when it returns:
//
//	import "github.com/bft-labs/deltaship/plugins/configwatcher"
//
//	s, err := deltaship.New(cfg,
//	    configwatcher.WithConfigWatcher(configwatcher.DefaultConfig()),
//	)
//
// # Version
//
// Current version: 1.0.0
// Minimum compatible version: 1.0.0
package deltaship
