package handlers

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/yasinhessnawi1/storefront/internal/constants"
	"github.com/yasinhessnawi1/storefront/internal/utils"
)

// SPAHandler serves the compiled client application. Existing files under the
// build directory are served as they are; every other path gets the index
// document so the client router can resolve it.
type SPAHandler struct {
	buildDir  string
	indexFile string
}

// NewSPAHandler creates a handler for the build directory.
func NewSPAHandler(buildDir, indexFile string) *SPAHandler {
	if indexFile == "" {
		indexFile = constants.DefaultFrontendIndex
	}
	return &SPAHandler{
		buildDir:  buildDir,
		indexFile: indexFile,
	}
}

// ServeHTTP implements http.Handler.
func (h *SPAHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set(constants.HeaderAllow, "GET, HEAD")
		utils.MethodNotAllowed(w)
		return
	}

	// path.Clean on a rooted path cannot climb above the build directory.
	clean := path.Clean("/" + r.URL.Path)
	if clean != "/" {
		candidate := filepath.Join(h.buildDir, filepath.FromSlash(strings.TrimPrefix(clean, "/")))
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			w.Header().Set(constants.HeaderCacheControl, staticCacheControl)
			http.ServeFile(w, r, candidate)
			return
		}
	}

	h.serveIndex(w, r)
}

func (h *SPAHandler) serveIndex(w http.ResponseWriter, r *http.Request) {
	index := filepath.Join(h.buildDir, h.indexFile)
	f, err := os.Open(index)
	if err != nil {
		log.Error().Err(err).Str("index", index).Msg("Client application index not found")
		utils.NotFound(w, "")
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		utils.InternalServerError(w, err)
		return
	}

	w.Header().Set(constants.HeaderContentType, constants.ContentTypeHTML)
	w.Header().Set(constants.HeaderCacheControl, "no-cache")
	// ServeContent rather than ServeFile, which would redirect .../index.html to .../
	http.ServeContent(w, r, h.indexFile, info.ModTime(), f)
}

var staticCacheControl = "public, max-age=" + strconv.Itoa(constants.StaticAssetMaxAge)
