package capture

import (
	"bytes"
	"cmp"
	"context"
	"io"
	"slices"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/wippyai/d3d12-capture/command"
)

type pending struct {
	payload []byte
	index   int64
	call    command.CallID
}

// DecodeAll reads every remaining block from r and decodes the command
// blocks on up to workers goroutines. Commands are returned in sequence
// order and own their memory. The first decode error cancels the rest.
func DecodeAll(ctx context.Context, r *Reader, workers int) ([]command.Command, error) {
	var blocks []pending
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		b, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if b.Kind != BlockCommand {
			continue
		}
		blocks = append(blocks, pending{
			payload: bytes.Clone(b.Payload),
			index:   b.Index,
			call:    b.Call,
		})
	}

	cmds := make([]command.Command, len(blocks))
	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, p := range blocks {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			cmd, err := command.Decode(p.call, p.payload)
			if err != nil {
				Logger().Warn("command decode failed",
					zap.Int64("block", p.index), zap.Stringer("call", p.call), zap.Error(err))
				return err
			}
			cmds[i] = cmd
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	slices.SortStableFunc(cmds, func(a, b command.Command) int {
		return cmp.Compare(a.Header().Seq, b.Header().Seq)
	})
	Logger().Debug("capture decoded", zap.Int("commands", len(cmds)), zap.Int("workers", workers))
	return cmds, nil
}
