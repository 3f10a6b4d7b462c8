package views

import (
	"errors"
	"html/template"
	"io"
	"io/fs"

	"github.com/i474232898/climate-dashboard/internal/dashboard"
)

var pageTmpl *template.Template

// loadTemplatesFromFS loads page templates from the given fs and dir.
// Used by LoadTemplates and by tests to simulate failure scenarios.
func loadTemplatesFromFS(fsys fs.FS, dir string) error {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		return err
	}
	pageTmpl, err = template.ParseFS(sub, "*.html", "partials/*.html")
	if err != nil {
		return err
	}
	return nil
}

// LoadTemplates loads embedded page templates. Call during startup before
// serving requests; if it returns an error, do not start the server.
func LoadTemplates() error {
	return loadTemplatesFromFS(viewsFS, "templates")
}

type IndexData struct {
	Title         string
	DashboardPath string
}

// RenderIndex writes the static landing page.
func RenderIndex(w io.Writer, data *IndexData) error {
	if pageTmpl == nil {
		return errors.New("index template not loaded: call views.LoadTemplates during startup")
	}
	return pageTmpl.ExecuteTemplate(w, "index.html", data)
}

// GraphsData is the view model for the graphs partial. A nil Summary renders the
// "no observations" placeholder.
type GraphsData struct {
	City    string
	Summary *dashboard.Summary
	Charts  []dashboard.Chart
}

// NewGraphsData adapts a dashboard.CityView to the partial's view model.
func NewGraphsData(view dashboard.CityView) *GraphsData {
	return &GraphsData{
		City:    view.City,
		Summary: view.Summary,
		Charts:  view.Charts,
	}
}

type DashboardData struct {
	Cities        []string
	Selected      string
	DashboardPath string
	GraphsPath    string
	Graphs        *GraphsData
}

func RenderDashboard(w io.Writer, data *DashboardData) error {
	if pageTmpl == nil {
		return errors.New("dashboard template not loaded: call views.LoadTemplates during startup")
	}
	return pageTmpl.ExecuteTemplate(w, "dashboard.html", data)
}

// RenderGraphsPartial executes only the graphs partial into w.
// Use for HTMX fragment refresh when the selected city changes.
func RenderGraphsPartial(w io.Writer, data *GraphsData) error {
	if pageTmpl == nil {
		return errors.New("graphs template not loaded: call views.LoadTemplates during startup")
	}
	return pageTmpl.ExecuteTemplate(w, "graphs", data)
}
