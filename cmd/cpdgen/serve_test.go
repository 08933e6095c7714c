package main

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"testing"
	"time"
)

func TestServeNeedsInput(t *testing.T) {
	resetFlags(t)
	if err := runServe(context.Background(), nil); err == nil {
		t.Fatal("expected error without input")
	}
	if err := runServe(context.Background(), []string{"testdata/none.xml"}); err == nil {
		t.Fatal("expected error for missing input")
	}
}

func freePort(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()
	return strconv.Itoa(l.Addr().(*net.TCPAddr).Port)
}

func TestServe(t *testing.T) {
	resetFlags(t)
	port := freePort(t)
	t.Setenv("CPDGEN_PORT", port)

	input := testdataPath(t, "clean.xml")

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- runServe(ctx, []string{input}) }()

	// The first run completes shortly after startup; until then / is 503.
	url := "http://127.0.0.1:" + port + "/"
	deadline := time.Now().Add(5 * time.Second)
	status := 0
	for time.Now().Before(deadline) {
		resp, err := http.Get(url)
		if err == nil {
			status = resp.StatusCode
			resp.Body.Close()
			if status == http.StatusOK {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
	}
	if status != http.StatusOK {
		t.Errorf("GET / status = %d", status)
	}

	cancel()
	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("runServe: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
