package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync/atomic"

	"ascii-form/internal/client"
	"ascii-form/internal/config"
	"ascii-form/internal/controller"
	"ascii-form/internal/form"
	"ascii-form/internal/gelf"
	"ascii-form/internal/page"
	"ascii-form/internal/security"
	"ascii-form/internal/ui"
)

// fieldFlags collects repeated -field name=value flags.
type fieldFlags []string

func (f *fieldFlags) String() string { return strings.Join(*f, ",") }

func (f *fieldFlags) Set(v string) error {
	name, _, ok := strings.Cut(v, "=")
	if !ok || strings.TrimSpace(name) == "" {
		return fmt.Errorf("want name=value, got %q", v)
	}
	*f = append(*f, v)
	return nil
}

// apply sets every collected field on d, replacing values already there.
func (f fieldFlags) apply(d *page.FormElement) {
	for _, kv := range f {
		name, value, _ := strings.Cut(kv, "=")
		d.Set(strings.TrimSpace(name), value)
	}
}

// request is what the flags ask the client to submit.
type request struct {
	file, aspect, width, height string
	banner                      string
	fields                      fieldFlags
}

func main() {
	cfg := config.Load()

	baseURL := flag.String("url", cfg.BaseURL, "Generator base URL")
	file := flag.String("file", "", "Image to convert (png, jpeg or gif)")
	aspect := flag.String("aspect", "scale", "Aspect mode for -file: scale, pixel or fixed")
	width := flag.String("width", "", "Output width when -aspect fixed")
	height := flag.String("height", "", "Output height when -aspect fixed")
	banner := flag.String("banner", "", "Banner text to render")
	progress := flag.Bool("progress", cfg.Progress, "Show upload progress")
	var fields fieldFlags
	flag.Var(&fields, "field", "Extra form field name=value, set on each submitted form (repeatable)")
	flag.Parse()

	if *file == "" && *banner == "" {
		fmt.Println("Usage: client [-url URL] [-field name=value ...] -file [image] [-aspect scale|pixel|fixed -width N -height N] | -banner [text]")
		os.Exit(2)
	}

	logger := cfg.Log
	if cfg.GelfAddr != "" {
		w, err := gelf.New(cfg.GelfAddr, "ascii-form")
		if err != nil {
			logger.Printf("Warning: GELF init failed: %v", err)
		} else {
			defer w.Close()
			logger.SetOutput(io.MultiWriter(os.Stderr, w))
			logger.Printf("GELF logging: enabled (%s)", cfg.GelfAddr)
		}
	}

	cl := client.New(*baseURL, cfg.Timeout)
	tlsCfg, err := security.ClientTLSConfig(cfg.CAFile)
	if err != nil {
		logger.Fatalf("Fatal: TLS setup: %v", err)
	}
	cl.UseTLS(tlsCfg)
	if *progress {
		cl.WrapBody = progressBar
	}

	req := request{
		file:   *file,
		aspect: *aspect,
		width:  *width,
		height: *height,
		banner: *banner,
		fields: fields,
	}
	if !run(cl, logger, req, os.Stdout, os.Stderr) {
		os.Exit(1)
	}
}

// run submits each requested form in turn through the in-memory index page
// and prints what the output element ends up showing: art to stdout, error
// text to stderr. It reports whether every submission succeeded.
func run(p controller.Poster, logger *log.Logger, req request, stdout, stderr io.Writer) bool {
	ix := controller.NewIndex()
	c := controller.New(p, logger)

	var failed atomic.Bool
	c.Settled = func(r controller.Result) {
		if r.Err != nil {
			failed.Store(true)
		}
	}
	c.Bind(ix)

	if req.file != "" {
		ix.UploadForm.SetFile("file", form.DiskFile(req.file))
		ix.AspectMode.Choose(req.aspect)
		if !ix.SizeOptions.Hidden() {
			ix.UploadForm.Set("width", req.width)
			ix.UploadForm.Set("height", req.height)
		}
		req.fields.apply(ix.UploadForm)
		ix.UploadSubmit.Click()
		c.Wait()
		printOutput(stdout, stderr, ix.Output.Text())
	}

	if req.banner != "" {
		ix.BannerForm.Set("bannerText", req.banner)
		req.fields.apply(ix.BannerForm)
		ix.BannerSubmit.Click()
		c.Wait()
		printOutput(stdout, stderr, ix.Output.Text())
	}

	return !failed.Load()
}

func printOutput(stdout, stderr io.Writer, text string) {
	if strings.HasPrefix(text, controller.ErrorPrefix) {
		fmt.Fprintln(stderr, text)
		return
	}
	fmt.Fprint(stdout, text)
	if !strings.HasSuffix(text, "\n") {
		fmt.Fprintln(stdout)
	}
}

func progressBar(path string, body io.Reader, size int64) io.Reader {
	label := path
	for _, a := range controller.Actions() {
		if a.Path == path {
			label = a.Pending
		}
	}
	return ui.NewProgressReader(label, size, body, os.Stderr)
}
