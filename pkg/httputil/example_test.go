package httputil_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/matzehuels/glyphorbit/pkg/httputil"
)

func ExampleCache_Namespace() {
	dir := filepath.Join(os.TempDir(), "glyphorbit-example")
	defer os.RemoveAll(dir)

	cache, err := httputil.NewCache(dir, 24*time.Hour)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	fonts := cache.Namespace("fonts:")
	_ = fonts.Set("https://example.com/Inter.ttf", httputil.Validator{ETag: `"v1"`, Hash: "9f86d0"})

	v, fresh, err := fonts.Get("https://example.com/Inter.ttf")
	fmt.Println(fresh, err, v.Headers()["If-None-Match"])
	// Output:
	// true <nil> "v1"
}

func ExampleRetry() {
	calls := 0
	err := httputil.Retry(context.Background(), 3, time.Millisecond, func() error {
		calls++
		if calls < 3 {
			return &httputil.RetryableError{Err: errors.New("connection reset")}
		}
		return nil
	})
	fmt.Println(calls, err)
	// Output: 3 <nil>
}
