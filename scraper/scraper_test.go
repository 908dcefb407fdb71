//
// Copyright (C) 2026 The contratos-kb authors. All rights reserved.
//
// contratos-kb is licensed under the Apache License Version 2.0.
//
//

package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencontratos/contratos-kb/contracts"
)

func TestNewDefaults(t *testing.T) {
	c := New("https://portal.example.org/")

	assert.Equal(t, "https://portal.example.org", c.baseURL)
	assert.Equal(t, DefaultUserAgent, c.userAgent)
	assert.Equal(t, DefaultMaxPages, c.maxPages)
	assert.Equal(t, DefaultPageDelay, c.pageDelay)
	assert.Equal(t, contracts.DefaultDataRoot, c.dataRoot)
}

func TestFetchHTML(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, "<html><body>cláusula</body></html>")
	}))
	defer srv.Close()

	c := New(srv.URL, WithUserAgent("test-agent/0.1"))
	body, err := c.FetchHTML(context.Background(), srv.URL+"/detail")
	require.NoError(t, err)
	assert.Contains(t, body, "cláusula")
	assert.Equal(t, "test-agent/0.1", gotUA)
}

func TestFetchHTMLDecodesLegacyCharset(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=iso-8859-1")
		// "adjudicación" with ó encoded as Latin-1 0xF3.
		w.Write([]byte("adjudicaci\xf3n"))
	}))
	defer srv.Close()

	c := New(srv.URL)
	body, err := c.FetchHTML(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "adjudicación", body)
}

func TestFetchHTMLStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.FetchHTML(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestExtractContractLinks(t *testing.T) {
	c := New("https://portal.example.org")
	htmlText := `<a href="/contrato-publico/b-002">B</a>
      <a href="/contrato-publico/a-001">A</a>
      <a href="/contrato-publico/a-001">A again</a>
      <a href="/otra-cosa/x">other</a>`

	links := c.ExtractContractLinks(htmlText)
	assert.Equal(t, []string{
		"https://portal.example.org/contrato-publico/a-001",
		"https://portal.example.org/contrato-publico/b-002",
	}, links)
}

func TestExtractContractLinksEmpty(t *testing.T) {
	c := New("https://portal.example.org")
	assert.Nil(t, c.ExtractContractLinks(`<a href="/otra-cosa/x">other</a>`))
}

func TestUpdatePageParam(t *testing.T) {
	got, err := updatePageParam("https://portal.example.org/buscar?q=obras&page=0", 3)
	require.NoError(t, err)
	assert.Equal(t, "https://portal.example.org/buscar?page=3&q=obras", got)

	got, err = updatePageParam("https://portal.example.org/buscar", 1)
	require.NoError(t, err)
	assert.Equal(t, "https://portal.example.org/buscar?page=1", got)
}

func TestPaginateContractLinksStopsOnEmptyPage(t *testing.T) {
	var pagesServed atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pagesServed.Add(1)
		switch r.URL.Query().Get("page") {
		case "0":
			fmt.Fprint(w, `<a href="/contrato-publico/a-001">A</a>`)
		case "1":
			fmt.Fprint(w, `<a href="/contrato-publico/a-001">A</a> <a href="/contrato-publico/b-002">B</a>`)
		default:
			fmt.Fprint(w, "<html><body>sin resultados</body></html>")
		}
	}))
	defer srv.Close()

	c := New(srv.URL, WithPageDelay(0), WithMaxPages(10))
	links, err := c.PaginateContractLinks(context.Background(), srv.URL+"/buscar?q=obras")
	require.NoError(t, err)

	assert.Equal(t, []string{
		srv.URL + "/contrato-publico/a-001",
		srv.URL + "/contrato-publico/b-002",
	}, links)
	assert.EqualValues(t, 3, pagesServed.Load())
}

func TestPaginateContractLinksHonorsMaxPages(t *testing.T) {
	var pagesServed atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pagesServed.Add(1)
		fmt.Fprintf(w, `<a href="/contrato-publico/p-%s">x</a>`, r.URL.Query().Get("page"))
	}))
	defer srv.Close()

	c := New(srv.URL, WithPageDelay(0), WithMaxPages(2))
	links, err := c.PaginateContractLinks(context.Background(), srv.URL+"/buscar")
	require.NoError(t, err)
	assert.Len(t, links, 2)
	assert.EqualValues(t, 2, pagesServed.Load())
}

func TestDownloadPDF(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		w.Write([]byte("%PDF-1.4 fake"))
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "nested", "pliego_admin.pdf")
	c := New(srv.URL)
	require.NoError(t, c.DownloadPDF(context.Background(), srv.URL+"/admin.pdf", dest))

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 fake", string(data))
}

func TestDownloadPDFStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "x.pdf")
	c := New(srv.URL)
	err := c.DownloadPDF(context.Background(), srv.URL+"/x.pdf", dest)
	require.Error(t, err)
	assert.NoFileExists(t, dest)
}

func TestProcessContractDetail(t *testing.T) {
	detail := `<html><body>
      <ul class="pcon-convocatoria">
        <li>
          <div class="field__label">Número de expediente</div>
          <div class="field__item">A-SUM-048553/2025</div>
        </li>
      </ul>
      <div id="pcon-pliego-de-condiciones">
        <div><a href="/docs/admin.pdf">Descargar documento</a></div>
        <div><a href="/docs/tecnico.pdf">Descargar documento</a></div>
      </div>
    </body></html>`

	mux := http.NewServeMux()
	mux.HandleFunc("/contrato-publico/a-sum", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, detail)
	})
	mux.HandleFunc("/docs/admin.pdf", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		w.Write([]byte("%PDF admin"))
	})
	// tecnico.pdf intentionally 404s: a failed download is logged and the
	// record simply omits that pliego.
	srv := httptest.NewServer(mux)
	defer srv.Close()

	dataRoot := t.TempDir()
	c := New(srv.URL, WithDataRoot(dataRoot))

	record, err := c.ProcessContractDetail(context.Background(), srv.URL+"/contrato-publico/a-sum")
	require.NoError(t, err)

	assert.Equal(t, "A-SUM-048553/2025", record.ContractID)
	assert.Equal(t, srv.URL+"/contrato-publico/a-sum", record.DetailURL)
	assert.Contains(t, record.PDFs, PliegoAdmin)
	assert.NotContains(t, record.PDFs, PliegoTecnico)

	adminPath := filepath.Join(dataRoot, "A-SUM-048553_2025", "pliego_admin.pdf")
	assert.Equal(t, adminPath, record.PDFs[PliegoAdmin])
	assert.FileExists(t, adminPath)
	assert.FileExists(t, filepath.Join(dataRoot, "A-SUM-048553_2025", contracts.MetadataFilename))
}

func TestProcessContractDetailUnknownID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><ul class="pcon-convocatoria"></ul></body></html>`)
	}))
	defer srv.Close()

	dataRoot := t.TempDir()
	c := New(srv.URL, WithDataRoot(dataRoot))
	record, err := c.ProcessContractDetail(context.Background(), srv.URL+"/contrato-publico/x")
	require.NoError(t, err)

	assert.Equal(t, contracts.UnknownContractID, record.ContractID)
	assert.Empty(t, record.PDFs)
	assert.FileExists(t, filepath.Join(dataRoot, contracts.UnknownContractID, contracts.MetadataFilename))
}
