// Copyright 2025 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package storage reads and writes tool inputs and outputs that live either
// on the local filesystem or in Google Cloud Storage.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"

	"cloud.google.com/go/storage"
	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const gcsScheme = "gs://"

var errInvalidObjectURI = errors.New("object URI must have the form gs://bucket/object")

var (
	gcsClient           *storage.Client
	gcsClientErr        error
	initializeGCSClient sync.Once
)

// newGCSClient returns a storage client that uses the application default
// credentials, or the *http.Client stored in ctx under oauth2.HTTPClient.  It
// caches the storage client for efficiency.
func newGCSClient(ctx context.Context) (*storage.Client, error) {
	initializeGCSClient.Do(func() {
		var opts []option.ClientOption
		if c, ok := ctx.Value(oauth2.HTTPClient).(*http.Client); ok {
			opts = append(opts, option.WithHTTPClient(c))
		}
		gcsClient, gcsClientErr = storage.NewClient(context.Background(), opts...)
	})
	if gcsClientErr != nil {
		return nil, fmt.Errorf("creating storage client: %v", gcsClientErr)
	}
	return gcsClient, nil
}

// IsGCS reports whether uri names a Cloud Storage object.
func IsGCS(uri string) bool {
	return strings.HasPrefix(uri, gcsScheme)
}

// parseObjectURI splits gs://bucket/object into its bucket and object.
func parseObjectURI(uri string) (string, string, error) {
	if parts := strings.SplitN(strings.TrimPrefix(uri, gcsScheme), "/", 2); len(parts) == 2 {
		if parts[0] != "" && parts[1] != "" {
			return parts[0], parts[1], nil
		}
	}
	return "", "", errInvalidObjectURI
}

// Open returns a reader for the local file or gs:// object named by uri.
func Open(ctx context.Context, uri string) (io.ReadCloser, error) {
	if !IsGCS(uri) {
		return os.Open(uri)
	}

	bucket, object, err := parseObjectURI(uri)
	if err != nil {
		return nil, err
	}
	gcs, err := newGCSClient(ctx)
	if err != nil {
		return nil, err
	}
	r, err := gcs.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		return nil, newStorageError(uri, err)
	}
	return r, nil
}

// Create returns a writer for the local file or gs:// object named by uri.
// Data is only guaranteed to be stored once Close returns without error.
func Create(ctx context.Context, uri string) (io.WriteCloser, error) {
	if !IsGCS(uri) {
		return os.Create(uri)
	}

	bucket, object, err := parseObjectURI(uri)
	if err != nil {
		return nil, err
	}
	gcs, err := newGCSClient(ctx)
	if err != nil {
		return nil, err
	}
	w := gcs.Bucket(bucket).Object(object).NewWriter(ctx)
	w.ContentType = "application/json"
	return &objectWriter{w, uri}, nil
}

type objectWriter struct {
	*storage.Writer
	uri string
}

func (w *objectWriter) Close() error {
	if err := w.Writer.Close(); err != nil {
		return newStorageError(w.uri, err)
	}
	return nil
}

// ReadAll reads the whole of the object named by uri.
func ReadAll(ctx context.Context, uri string) ([]byte, error) {
	r, err := Open(ctx, uri)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

func newStorageError(uri string, err error) error {
	if err == storage.ErrObjectNotExist {
		return fmt.Errorf("%s: object does not exist", uri)
	}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch gerr.Code {
		case http.StatusUnauthorized:
			return fmt.Errorf("%s: invalid authentication: %v", uri, gerr.Message)
		case http.StatusForbidden:
			return fmt.Errorf("%s: permission denied: %v", uri, gerr.Message)
		}
	}
	return fmt.Errorf("%s: %v", uri, err)
}
