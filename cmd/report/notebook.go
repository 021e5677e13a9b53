package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Minimal nbformat v4 writer. Cells are kept as raw JSON so cells lifted from
// included notebooks keep their outputs untouched.
type notebook struct {
	Cells         []json.RawMessage `json:"cells"`
	Metadata      map[string]any    `json:"metadata"`
	NBFormat      int               `json:"nbformat"`
	NBFormatMinor int               `json:"nbformat_minor"`
}

func newNotebook(title, date string) *notebook {
	return &notebook{
		Cells: make([]json.RawMessage, 0),
		Metadata: map[string]any{
			"title": title,
			"date":  date,
		},
		NBFormat:      4,
		NBFormatMinor: 5,
	}
}

func (nb *notebook) append(cells ...json.RawMessage) {
	nb.Cells = append(nb.Cells, cells...)
}

func newRawCell(source string) json.RawMessage {
	cell, _ := json.Marshal(struct {
		CellType string         `json:"cell_type"`
		Metadata map[string]any `json:"metadata"`
		Source   string         `json:"source"`
	}{
		CellType: "raw",
		Metadata: map[string]any{},
		Source:   source,
	})
	return cell
}

func newMarkdownCell(source string) json.RawMessage {
	cell, _ := json.Marshal(struct {
		CellType string         `json:"cell_type"`
		Metadata map[string]any `json:"metadata"`
		Source   string         `json:"source"`
	}{
		CellType: "markdown",
		Metadata: map[string]any{},
		Source:   source,
	})
	return cell
}

func newCodeCell(source string) json.RawMessage {
	cell, _ := json.Marshal(struct {
		CellType       string            `json:"cell_type"`
		Metadata       map[string]any    `json:"metadata"`
		Source         string            `json:"source"`
		Outputs        []json.RawMessage `json:"outputs"`
		ExecutionCount *int              `json:"execution_count"`
	}{
		CellType: "code",
		Metadata: map[string]any{},
		Source:   source,
		Outputs:  []json.RawMessage{},
	})
	return cell
}

func coverCell(logoPath string) json.RawMessage {
	cover := `
\begin{center}
\includegraphics[width=0.5\textwidth]{` + logoPath + `}
\end{center}

\begin{center}
\huge \textbf{Behavioral Cloning for Autonomous Driving}
\end{center}

\begin{center}
\Large \textbf{Autonomous Navigation}
\end{center}

\vspace{1cm}

\textbf{Team:} equipo13 \\
`
	return newRawCell(cover)
}

func linksCell(repoURL, videoURL string) json.RawMessage {
	return newMarkdownCell(fmt.Sprintf(
		"# Project links\n- Repository: [%s](%s)\n- Video: %s\n",
		repoURL, repoURL, videoURL,
	))
}

// buildNotebook assembles the report notebook: cover page, project links,
// README passthrough, one markdown+code cell pair per script, and the cells
// of every included notebook.
func buildNotebook(scriptPaths, notebookPaths []string, readmePath, logoPath, repoURL, videoURL, title, date string) (*notebook, error) {
	nb := newNotebook(title, date)

	nb.append(coverCell(logoPath))
	nb.append(linksCell(repoURL, videoURL))

	readmeContent, err := os.ReadFile(readmePath)
	if err != nil {
		return nil, fmt.Errorf("error reading readme %s: %w", readmePath, err)
	}
	nb.append(newMarkdownCell(string(readmeContent)))

	for _, scriptPath := range scriptPaths {
		scriptContent, err := os.ReadFile(scriptPath)
		if err != nil {
			return nil, fmt.Errorf("error reading script %s: %w", scriptPath, err)
		}
		nb.append(newMarkdownCell(fmt.Sprintf("# Source: %s\n\nContents:", filepath.Base(scriptPath))))
		nb.append(newCodeCell(string(scriptContent)))
	}

	for _, notebookPath := range notebookPaths {
		included, err := readNotebookCells(notebookPath)
		if err != nil {
			return nil, err
		}
		nb.append(newMarkdownCell(fmt.Sprintf("# Notebook: %s", filepath.Base(notebookPath))))
		nb.append(included...)
	}

	return nb, nil
}

func readNotebookCells(path string) ([]json.RawMessage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading notebook %s: %w", path, err)
	}

	included := struct {
		Cells []json.RawMessage `json:"cells"`
	}{}
	err = json.Unmarshal(data, &included)
	if err != nil {
		return nil, fmt.Errorf("error parsing notebook %s: %w", path, err)
	}
	return included.Cells, nil
}

func (nb *notebook) writeFile(path string) error {
	data, err := json.MarshalIndent(nb, "", " ")
	if err != nil {
		return fmt.Errorf("error marshalling notebook: %w", err)
	}
	err = os.WriteFile(path, data, 0644)
	if err != nil {
		return fmt.Errorf("error writing notebook %s: %w", path, err)
	}
	return nil
}
