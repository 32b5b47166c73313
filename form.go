package pagebuilder

import (
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/eringen/pagebuilder/builder"
)

// submission is a reconcile request body.
type submission struct {
	Title  string           `json:"title"`
	Nonce  string           `json:"_nonce"`
	Blocks []map[string]any `json:"blocks"`
}

// instances decodes the submitted blocks in submission order.
func (s submission) instances() []builder.Instance {
	out := make([]builder.Instance, 0, len(s.Blocks))
	for _, m := range s.Blocks {
		out = append(out, builder.InstanceFromMap(m))
	}
	return out
}

// bindSubmission reads a JSON body or a url-encoded form.
func bindSubmission(c echo.Context) (submission, error) {
	var s submission
	if strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		if err := c.Bind(&s); err != nil {
			return s, err
		}
		return s, nil
	}
	form, err := c.FormParams()
	if err != nil {
		return s, err
	}
	s.Title = form.Get("title")
	s.Nonce = form.Get("_nonce")
	s.Blocks = formBlocks(form)
	return s, nil
}

// formBlocks collects blocks[<i>][<field>] values into one map per block,
// ordered by ascending i. Keys that do not follow the pattern are ignored.
func formBlocks(form url.Values) []map[string]any {
	byIndex := make(map[int]map[string]any)
	for key, vals := range form {
		if len(vals) == 0 {
			continue
		}
		i, field, ok := blockField(key)
		if !ok {
			continue
		}
		m := byIndex[i]
		if m == nil {
			m = make(map[string]any)
			byIndex[i] = m
		}
		m[field] = vals[0]
	}

	indexes := make([]int, 0, len(byIndex))
	for i := range byIndex {
		indexes = append(indexes, i)
	}
	sort.Ints(indexes)

	out := make([]map[string]any, 0, len(indexes))
	for _, i := range indexes {
		out = append(out, byIndex[i])
	}
	return out
}

func blockField(key string) (int, string, bool) {
	rest, ok := strings.CutPrefix(key, "blocks[")
	if !ok {
		return 0, "", false
	}
	idx, rest, ok := strings.Cut(rest, "]")
	if !ok {
		return 0, "", false
	}
	i, err := strconv.Atoi(idx)
	if err != nil || i < 0 {
		return 0, "", false
	}
	if !strings.HasPrefix(rest, "[") || !strings.HasSuffix(rest, "]") || len(rest) < 3 {
		return 0, "", false
	}
	return i, rest[1 : len(rest)-1], true
}
