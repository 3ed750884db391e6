package mdpages

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-mdpages/internal/fileutil"
	"github.com/alnah/go-mdpages/internal/process"
)

// pdfConverter turns one standalone HTML page into PDF bytes.
type pdfConverter interface {
	ToPDF(ctx context.Context, htmlContent string, page *PageSettings) ([]byte, error)
	Close() error
}

// pdfRenderer renders a local HTML file, so tests can run without a browser.
type pdfRenderer interface {
	RenderFromFile(ctx context.Context, filePath string, page *PageSettings) ([]byte, error)
	Close() error
}

var (
	_ pdfConverter = (*rodConverter)(nil)
	_ pdfRenderer  = (*rodRenderer)(nil)
)

// paperSizes holds portrait width and height in inches.
var paperSizes = map[string][2]float64{
	PageSizeLetter: {8.5, 11},
	PageSizeA4:     {8.27, 11.69},
	PageSizeLegal:  {8.5, 14},
}

// rodRenderer prints pages with headless Chrome. Rod downloads Chromium on
// first use if no browser is found.
type rodRenderer struct {
	mu      sync.Mutex
	launch  *launcher.Launcher
	browser *rod.Browser
	timeout time.Duration
}

func newRodRenderer(timeout time.Duration) *rodRenderer {
	return &rodRenderer{timeout: timeout}
}

// ensureBrowser lazily starts and connects to the browser.
func (r *rodRenderer) ensureBrowser() error {
	if r.browser != nil {
		return nil
	}

	l := launcher.New()
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}
	if os.Getenv("CI") == "true" || os.Getenv("ROD_NO_SANDBOX") == "1" || os.Getenv("ROD_BROWSER_BIN") != "" {
		l = l.NoSandbox(true)
	}
	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	r.launch, r.browser = l, browser
	return nil
}

// Close shuts the browser down and kills any leftover child processes.
func (r *rodRenderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.browser == nil {
		return nil
	}
	err := r.browser.Close()
	if pid := r.launch.PID(); pid > 0 {
		process.KillProcessGroup(pid)
	}
	r.launch.Kill()
	r.browser, r.launch = nil, nil
	return err
}

// RenderFromFile opens filePath in a new tab and prints it.
func (r *rodRenderer) RenderFromFile(ctx context.Context, filePath string, page *PageSettings) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	err := r.ensureBrowser()
	browser := r.browser
	r.mu.Unlock()
	if err != nil {
		return nil, err
	}

	tab, err := browser.Page(proto.TargetCreateTarget{URL: "file://" + filePath})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer tab.Close()

	timeout := r.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return nil, context.DeadlineExceeded
		}
	}
	if err := tab.Timeout(timeout).WaitLoad(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reader, err := tab.PDF(buildPDFOptions(page))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}
	buf, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGeneration, err)
	}
	return buf, nil
}

// buildPDFOptions maps page settings to Chrome print options. A nil page
// uses the defaults.
func buildPDFOptions(page *PageSettings) *proto.PagePrintToPDF {
	if page == nil {
		page = DefaultPageSettings()
	}
	size, ok := paperSizes[strings.ToLower(page.Size)]
	if !ok {
		size = paperSizes[PageSizeLetter]
	}
	width, height := size[0], size[1]
	if strings.EqualFold(page.Orientation, OrientationLandscape) {
		width, height = height, width
	}
	margin := page.Margin
	if margin == 0 {
		margin = DefaultMargin
	}

	return &proto.PagePrintToPDF{
		PaperWidth:      floatPtr(width),
		PaperHeight:     floatPtr(height),
		MarginTop:       floatPtr(margin),
		MarginBottom:    floatPtr(margin),
		MarginLeft:      floatPtr(margin),
		MarginRight:     floatPtr(margin),
		PrintBackground: true,
	}
}

func floatPtr(v float64) *float64 {
	return &v
}

// rodConverter writes the page to a temp file and prints it.
type rodConverter struct {
	renderer pdfRenderer
}

func newRodConverter(timeout time.Duration) *rodConverter {
	return &rodConverter{renderer: newRodRenderer(timeout)}
}

// ToPDF converts one standalone HTML page to PDF.
func (c *rodConverter) ToPDF(ctx context.Context, htmlContent string, page *PageSettings) ([]byte, error) {
	path, cleanup, err := fileutil.WriteTempFile(htmlContent, "html")
	if err != nil {
		return nil, err
	}
	defer cleanup()

	return c.renderer.RenderFromFile(ctx, path, page)
}

// Close releases browser resources.
func (c *rodConverter) Close() error {
	if c.renderer != nil {
		return c.renderer.Close()
	}
	return nil
}
