package docs

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/swaggo/swag"
)

type swaggerParam struct {
	Name     string `json:"name"`
	In       string `json:"in"`
	Required bool   `json:"required"`
}

type swaggerOperation struct {
	Parameters []swaggerParam `json:"parameters"`
	Responses  map[string]any `json:"responses"`
}

type swaggerDoc struct {
	BasePath    string                                 `json:"basePath"`
	Paths       map[string]map[string]swaggerOperation `json:"paths"`
	Definitions map[string]any                         `json:"definitions"`
}

func readSwagger(t *testing.T) swaggerDoc {
	t.Helper()
	doc, err := swag.ReadDoc(SwaggerInfo.InstanceName())
	if err != nil {
		t.Fatalf("ReadDoc: %v", err)
	}
	var parsed swaggerDoc
	if err := json.Unmarshal([]byte(doc), &parsed); err != nil {
		t.Fatalf("swagger document is not valid JSON: %v", err)
	}
	return parsed
}

func TestSwaggerSpecIsRegistered(t *testing.T) {
	parsed := readSwagger(t)
	if parsed.BasePath != "/api/v1" {
		t.Errorf("expected base path /api/v1, got %s", parsed.BasePath)
	}
	if _, ok := parsed.Paths["/budgets/finalize"]["post"]; !ok {
		t.Error("expected the finalize operation to be documented")
	}

	t.Run("path_and_body_params", func(t *testing.T) {
		op := parsed.Paths["/budgets/{id}"]["put"]
		var hasID, hasBody bool
		for _, p := range op.Parameters {
			if p.Name == "id" && p.In == "path" && p.Required {
				hasID = true
			}
			if p.In == "body" && p.Required {
				hasBody = true
			}
		}
		if !hasID || !hasBody {
			t.Errorf("expected required id path param and body, got %+v", op.Parameters)
		}
	})

	t.Run("summary_requires_month", func(t *testing.T) {
		op := parsed.Paths["/budgets/summary"]["get"]
		if len(op.Parameters) != 1 || op.Parameters[0].Name != "month" || !op.Parameters[0].Required {
			t.Errorf("expected a single required month param, got %+v", op.Parameters)
		}
	})

	t.Run("request_definitions", func(t *testing.T) {
		for _, name := range []string{
			"handlers.MonthlyBudgetRequest",
			"handlers.CategoryBudgetRequest",
			"handlers.FinalizeRequest",
			"handlers.ErrorResponse",
		} {
			if _, ok := parsed.Definitions[name]; !ok {
				t.Errorf("missing definition %s", name)
			}
		}
	})
}

var (
	routerAnnotation = regexp.MustCompile(`^//\s*@Router\s+(\S+)\s+\[(\w+)\]`)
	paramAnnotation  = regexp.MustCompile(`^//\s*@Param\s+(\S+)\s+(\S+)`)
	statusAnnotation = regexp.MustCompile(`^//\s*@(?:Success|Failure)\s+(\d+)`)
)

// TestSwaggerMatchesHandlerAnnotations keeps the hand-kept document in step
// with the annotations it mirrors.
func TestSwaggerMatchesHandlerAnnotations(t *testing.T) {
	parsed := readSwagger(t)
	files, err := filepath.Glob(filepath.Join("..", "handlers", "*_handler.go"))
	if err != nil || len(files) == 0 {
		t.Fatalf("no handler sources found: %v", err)
	}

	documented := 0
	for _, file := range files {
		f, err := os.Open(file)
		if err != nil {
			t.Fatalf("open %s: %v", file, err)
		}
		var params, statuses []string
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if !strings.HasPrefix(line, "//") {
				params, statuses = nil, nil
				continue
			}
			if m := paramAnnotation.FindStringSubmatch(line); m != nil {
				params = append(params, m[2]+":"+m[1])
			}
			if m := statusAnnotation.FindStringSubmatch(line); m != nil {
				statuses = append(statuses, m[1])
			}
			m := routerAnnotation.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			documented++
			op, ok := parsed.Paths[m[1]][m[2]]
			if !ok {
				t.Errorf("%s %s is annotated but not documented", m[2], m[1])
				params, statuses = nil, nil
				continue
			}
			got := make(map[string]bool, len(op.Parameters))
			for _, p := range op.Parameters {
				got[p.In+":"+p.Name] = true
			}
			for _, want := range params {
				if !got[want] {
					t.Errorf("%s %s: parameter %s missing", m[2], m[1], want)
				}
			}
			if len(op.Parameters) != len(params) {
				t.Errorf("%s %s: expected %d parameters, got %d", m[2], m[1], len(params), len(op.Parameters))
			}
			for _, code := range statuses {
				if _, ok := op.Responses[code]; !ok {
					t.Errorf("%s %s: response %s missing", m[2], m[1], code)
				}
			}
			params, statuses = nil, nil
		}
		f.Close()
	}

	operations := 0
	for _, ops := range parsed.Paths {
		operations += len(ops)
	}
	if operations != documented {
		t.Errorf("expected %d documented operations, got %d", documented, operations)
	}
}
