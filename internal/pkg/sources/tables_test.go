package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestSheetClient_FetchTable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("gid") != "42" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte("Team,Wins\nAces,10\nLiberty,8\n"))
	}))
	defer srv.Close()

	c := NewSheetClient(time.Second)
	tbl, err := c.FetchTable(context.Background(), srv.URL+"/pub?output=csv&gid=42")
	if err != nil {
		t.Fatalf("FetchTable() error = %v", err)
	}
	if tbl.Len() != 2 || tbl.Rows[1]["Team"] != "Liberty" {
		t.Errorf("table = %+v", tbl)
	}

	if _, err := c.FetchTable(context.Background(), srv.URL+"/pub?gid=7"); err == nil {
		t.Errorf("expected error for 404")
	}
}

func TestHTMLClient_FetchTable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<table id="standings"><tr><th>Team</th><th>W</th></tr><tr><td>Sky</td><td>4</td></tr></table>`))
	}))
	defer srv.Close()

	tbl, err := NewHTMLClient(time.Second, "#standings").FetchTable(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("FetchTable() error = %v", err)
	}
	if tbl.Len() != 1 || tbl.Rows[0]["W"] != "4" {
		t.Errorf("table = %+v", tbl)
	}
}

func TestNewBrowserClient_DefaultSelector(t *testing.T) {
	c := NewBrowserClient(" ", time.Second, time.Minute)
	if c.selector != "table" {
		t.Errorf("selector = %q, want table", c.selector)
	}
	var _ TableSource = c
	var _ TableSource = NewSheetClient(0)
	var _ TableSource = NewHTMLClient(0, "")
}
