package chi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"

	"github.com/kailas-cloud/phonedex/internal/domain"
	"github.com/kailas-cloud/phonedex/internal/domain/search/request"
	searchuc "github.com/kailas-cloud/phonedex/internal/usecase/search"
)

// pathParam binds a required path parameter into dest.
func pathParam(r *http.Request, name string, dest any) error {
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), dest,
		runtime.BindStyledParameterOptions{
			ParamLocation: runtime.ParamLocationPath,
			Explode:       false,
			Required:      true,
		})
	if err != nil {
		return domain.NewValidationError(name, err.Error())
	}
	return nil
}

// queryParam binds an optional form-style query parameter into dest.
// dest is left untouched when the parameter is absent.
func queryParam(r *http.Request, name string, dest any) error {
	if err := runtime.BindQueryParameter("form", true, false, name, r.URL.Query(), dest); err != nil {
		return domain.NewValidationError(name, err.Error())
	}
	return nil
}

// searchQuery reads q (repeatable), fq and page. The page is clamped to 1.
func searchQuery(r *http.Request) (searchuc.Query, error) {
	var q searchuc.Query
	if err := queryParam(r, "q", &q.Terms); err != nil {
		return q, err
	}
	if err := queryParam(r, "fq", &q.Filter); err != nil {
		return q, err
	}
	q.Page = request.ParsePage(r.URL.Query().Get("page"))
	return q, nil
}
