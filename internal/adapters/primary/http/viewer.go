package http

import (
	"bytes"
	"fmt"
	"html/template"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/fredcamaral/ariel/internal/adapters/secondary/parser"
)

// viewerData feeds the viewer page template
type viewerData struct {
	Title       string
	WatchedFile string
}

var viewerTemplate = template.Must(template.New("viewer").Parse(viewerHTML))

// renderViewer builds the viewer page for the watched file
func (s *Server) renderViewer() ([]byte, error) {
	data := viewerData{
		Title:       s.displayTitle(),
		WatchedFile: s.watchedPath,
	}

	var buf bytes.Buffer
	if err := viewerTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("rendering viewer page: %w", err)
	}

	return buf.Bytes(), nil
}

// displayTitle derives a human-readable title for the watched file: the
// diagram's frontmatter title when one is present and readable, otherwise
// a title-cased form of the file name. Display only; a read failure here
// never fails the page.
func (s *Server) displayTitle() string {
	if snapshot, err := s.tracker.Snapshot(s.watchedPath); err == nil {
		if fm := parser.ExtractFrontmatter(snapshot.Content); fm.Title != "" {
			return fm.Title
		}
	}

	return titleFromFilename(s.watchedPath)
}

// titleFromFilename turns "payment-flow.mmd" into "Payment Flow"
func titleFromFilename(path string) string {
	name := filepath.Base(path)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	name = strings.NewReplacer("-", " ", "_", " ").Replace(name)

	return cases.Title(language.English).String(name)
}

// viewerHTML is the single-page viewer. It polls the diagram endpoint once
// a second, echoing the last ETag via If-None-Match, and keeps polling
// through errors so a transient failure never strands the page.
const viewerHTML = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}} - Ariel</title>

    <link href="https://cdn.jsdelivr.net/npm/bootstrap@5.3.0/dist/css/bootstrap.min.css" rel="stylesheet">

    <script type="module">
        import mermaid from 'https://cdn.jsdelivr.net/npm/mermaid@10/dist/mermaid.esm.min.mjs';
        mermaid.initialize({ startOnLoad: false, theme: 'default' });
        window.mermaid = mermaid;
    </script>

    <style>
        .checkerboard {
            background-image:
                linear-gradient(45deg, #ccc 25%, transparent 25%),
                linear-gradient(-45deg, #ccc 25%, transparent 25%),
                linear-gradient(45deg, transparent 75%, #ccc 75%),
                linear-gradient(-45deg, transparent 75%, #ccc 75%);
            background-size: 20px 20px;
            background-position: 0 0, 0 10px, 10px -10px, -10px 0px;
            background-color: #fff;
            min-height: 400px;
            display: flex;
            align-items: center;
            justify-content: center;
            border: 2px dashed #999;
        }

        #diagram-container {
            min-height: 400px;
            padding: 20px;
            background: #fff;
            border-radius: 8px;
            box-shadow: 0 2px 4px rgba(0,0,0,0.1);
        }

        .error-message {
            margin-top: 15px;
        }

        #status-indicator {
            display: inline-block;
            width: 12px;
            height: 12px;
            border-radius: 50%;
            margin-right: 8px;
        }

        .status-ok { background-color: #28a745; }
        .status-error { background-color: #dc3545; }
        .status-checking { background-color: #ffc107; }

        .watched-file {
            font-family: monospace;
        }
    </style>
</head>
<body>
    <div class="container mt-5">
        <div class="row">
            <div class="col-12">
                <h1 class="mb-1">
                    {{.Title}}
                    <small class="text-muted fs-6">
                        <span id="status-indicator" class="status-checking"></span>
                        <span id="status-text">Initializing...</span>
                    </small>
                </h1>
                <p class="text-muted watched-file">{{.WatchedFile}}</p>
            </div>
        </div>

        <div class="row">
            <div class="col-12">
                <div id="diagram-container">
                    <div class="checkerboard">
                        <span class="text-muted">Loading diagram...</span>
                    </div>
                </div>

                <div id="error-container" class="alert alert-danger error-message" style="display: none;" role="alert">
                    <strong>Error:</strong> <span id="error-message"></span>
                </div>
            </div>
        </div>
    </div>

    <script>
        let lastToken = null;
        let pollInterval = null;

        function showError(message) {
            document.getElementById('error-message').textContent = message;
            document.getElementById('error-container').style.display = 'block';
            document.getElementById('diagram-container').innerHTML =
                '<div class="checkerboard"><span class="text-muted">Error occurred</span></div>';
            updateStatus('error');
        }

        function clearError() {
            document.getElementById('error-container').style.display = 'none';
        }

        function updateStatus(status) {
            const indicator = document.getElementById('status-indicator');
            const text = document.getElementById('status-text');

            switch (status) {
                case 'ok':
                    indicator.className = 'status-ok';
                    text.textContent = 'Connected';
                    break;
                case 'error':
                    indicator.className = 'status-error';
                    text.textContent = 'Error';
                    break;
                case 'checking':
                    indicator.className = 'status-checking';
                    text.textContent = 'Checking...';
                    break;
            }
        }

        async function renderDiagram(source) {
            const container = document.getElementById('diagram-container');

            try {
                container.innerHTML = '';

                const target = document.createElement('div');
                target.className = 'mermaid';
                target.textContent = source;
                container.appendChild(target);

                await window.mermaid.run({ querySelector: '.mermaid' });

                clearError();
                updateStatus('ok');
            } catch (error) {
                console.error('Mermaid rendering error:', error);
                showError('Failed to render diagram: ' + error.message);
            }
        }

        async function checkForUpdates() {
            updateStatus('checking');

            try {
                const headers = {};
                if (lastToken) {
                    headers['If-None-Match'] = lastToken;
                }

                const response = await fetch('/mermaid', { headers });

                // Refresh the token on every response that carries one,
                // including not-modified.
                const token = response.headers.get('ETag');
                if (token) {
                    lastToken = token;
                }

                if (response.status === 304) {
                    updateStatus('ok');
                    return;
                }

                if (!response.ok) {
                    throw new Error('HTTP ' + response.status + ': ' + response.statusText);
                }

                const source = await response.text();
                if (!source) {
                    throw new Error('No diagram content received');
                }

                await renderDiagram(source);
            } catch (error) {
                // A failed poll shows an error but never stops polling.
                console.error('Error checking for updates:', error);
                showError('Failed to fetch diagram: ' + error.message);
            }
        }

        document.addEventListener('DOMContentLoaded', function() {
            checkForUpdates();
            pollInterval = setInterval(checkForUpdates, 1000);
        });

        window.addEventListener('beforeunload', function() {
            if (pollInterval) {
                clearInterval(pollInterval);
            }
        });
    </script>
</body>
</html>
`
