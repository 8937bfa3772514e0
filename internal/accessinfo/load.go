// Copyright 2025 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package accessinfo

import (
	"context"

	"go.uber.org/zap"

	"buf.build/go/protopgo/internal/source"
)

// Load opens a profile through package source and decodes it.
//
// Errors opening the profile are returned as-is, so a missing profile can be
// detected with [os.ErrNotExist]. Decoding errors match [ErrCorrupt].
func Load(ctx context.Context, name string, format Format, cfg source.Config) (*Dataset, error) {
	r, err := source.Open(ctx, name, cfg)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	ds, err := Read(r, name, format)
	if err != nil {
		return nil, err
	}

	if cfg.Logger != nil {
		cfg.Logger.Debug("loaded profile",
			zap.String("source", name),
			zap.Int("messages", len(ds.Messages)),
			zap.Uint64("unlikely_used_threshold", ds.UnlikelyUsedThreshold),
		)
	}
	return ds, nil
}
