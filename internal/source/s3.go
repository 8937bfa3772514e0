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

package source

import (
	"context"
	"io"
	"io/fs"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rotisserie/eris"
)

// S3Config configures s3:// sources.
type S3Config struct {
	Endpoint  string // Defaults to s3.amazonaws.com.
	Region    string
	AccessKey string
	SecretKey string
	UseSSL    bool
}

func (cfg S3Config) client() (*minio.Client, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		endpoint = "s3.amazonaws.com"
	}

	var creds *credentials.Credentials
	if cfg.AccessKey != "" || cfg.SecretKey != "" {
		creds = credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, "")
	} else {
		creds = credentials.NewEnvAWS()
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  creds,
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, eris.Wrap(err, "source: init s3 client")
	}
	return client, nil
}

func openS3(ctx context.Context, loc Location, cfg S3Config) (io.ReadCloser, error) {
	client, err := cfg.client()
	if err != nil {
		return nil, err
	}

	obj, err := client.GetObject(ctx, loc.Host, loc.Path, minio.GetObjectOptions{})
	if err != nil {
		return nil, s3Error(err, loc)
	}

	// GetObject is lazy; Stat forces the request so that missing objects are
	// reported here rather than on first read.
	if _, err := obj.Stat(); err != nil {
		_ = obj.Close()
		return nil, s3Error(err, loc)
	}
	return obj, nil
}

func s3Error(err error, loc Location) error {
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NoSuchBucket":
		return eris.Wrapf(fs.ErrNotExist, "source: opening %s: %v", loc, err)
	default:
		return eris.Wrapf(err, "source: opening %s", loc)
	}
}
