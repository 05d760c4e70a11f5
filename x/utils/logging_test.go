package utils

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/iov-one/weave-paychan"
	"github.com/iov-one/weave-paychan/errors"
	"github.com/iov-one/weave-paychan/store"
	"github.com/iov-one/weave-paychan/weavetest"
	"github.com/stretchr/testify/assert"
	"github.com/tendermint/tendermint/libs/log"
)

func TestLogging(t *testing.T) {
	cases := map[string]struct {
		handler  weave.Handler
		deliver  bool
		wantErr  bool
		wantLogs []string
	}{
		"successful deliver is logged as info": {
			handler:  &weavetest.Handler{DeliverResult: weave.DeliverResult{Log: "channel funded"}},
			deliver:  true,
			wantLogs: []string{"I[", "channel funded", "duration"},
		},
		"rejected deliver is logged as info with its code": {
			handler:  &weavetest.Handler{DeliverErr: errors.ErrAmount},
			deliver:  true,
			wantErr:  true,
			wantLogs: []string{"I[", "rejected", "code=12", "invalid amount"},
		},
		"internal failure is logged as error": {
			handler:  &weavetest.Handler{DeliverErr: fmt.Errorf("disk on fire")},
			deliver:  true,
			wantErr:  true,
			wantLogs: []string{"E[", "internal failure", "code=1", "disk on fire"},
		},
		"rejected check is logged as info": {
			handler:  &weavetest.Handler{CheckErr: errors.ErrUnauthorized},
			wantErr:  true,
			wantLogs: []string{"I[", "rejected", "code=2"},
		},
		"successful check is logged as debug": {
			handler:  &weavetest.Handler{CheckResult: weave.CheckResult{Log: "looks fine"}},
			wantLogs: []string{"D[", "looks fine", "gas=0"},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var buf bytes.Buffer
			logger := log.NewTMLogger(log.NewSyncWriter(&buf))
			ctx := weave.WithLogger(context.Background(), logger)
			db := store.MemStore()

			var err error
			if tc.deliver {
				_, err = NewLogging().Deliver(ctx, db, nil, tc.handler)
			} else {
				_, err = NewLogging().Check(ctx, db, nil, tc.handler)
			}
			assert.Equal(t, tc.wantErr, err != nil)

			out := buf.String()
			for _, want := range tc.wantLogs {
				assert.True(t, strings.Contains(out, want), "want %q in %q", want, out)
			}
		})
	}
}
