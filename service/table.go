package service

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// FieldGetter 表格行：按字段名取值，缺失返回nil
type FieldGetter interface {
	Field(key string) any
}

// Row 通用的map行
type Row map[string]any

// Field 实现FieldGetter
func (r Row) Field(key string) any {
	return r[key]
}

// SortDirection 排序方向
type SortDirection string

const (
	SortNone SortDirection = ""
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// TableFilter 键值筛选
type TableFilter struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// TableState 表格的搜索/排序/筛选状态，每个表格各自持有一份
type TableState struct {
	Search        string        `json:"search"`
	SearchKeys    []string      `json:"searchKeys"`
	SortKey       string        `json:"sortKey,omitempty"`
	SortDirection SortDirection `json:"sortDirection,omitempty"`
	Filters       []TableFilter `json:"filters"`
}

// NewTableState 创建表格状态，searchKeys为参与搜索的字段
func NewTableState(searchKeys ...string) *TableState {
	return &TableState{SearchKeys: searchKeys}
}

// SetSearch 设置搜索关键字
func (s *TableState) SetSearch(query string) {
	s.Search = query
}

// ToggleSort 同一列依次切换 升序 -> 降序 -> 不排序；切换到新列总是从升序开始
func (s *TableState) ToggleSort(key string) {
	if key == "" {
		return
	}
	if s.SortKey != key {
		s.SortKey = key
		s.SortDirection = SortAsc
		return
	}
	switch s.SortDirection {
	case SortAsc:
		s.SortDirection = SortDesc
	default:
		s.SortKey = ""
		s.SortDirection = SortNone
	}
}

// SetFilter 设置筛选，同一字段只保留一个值；空值移除该筛选
func (s *TableState) SetFilter(key, value string) {
	if value == "" {
		s.RemoveFilter(key)
		return
	}
	for i := range s.Filters {
		if s.Filters[i].Key == key {
			s.Filters[i].Value = value
			return
		}
	}
	s.Filters = append(s.Filters, TableFilter{Key: key, Value: value})
}

// RemoveFilter 移除字段的筛选
func (s *TableState) RemoveFilter(key string) {
	out := s.Filters[:0]
	for _, f := range s.Filters {
		if f.Key != key {
			out = append(out, f)
		}
	}
	s.Filters = out
}

// ClearFilters 清空全部筛选
func (s *TableState) ClearFilters() {
	s.Filters = nil
}

// ApplyTable 按 搜索 -> 筛选 -> 排序 的顺序派生结果，不修改输入
func ApplyTable[T FieldGetter](s *TableState, rows []T) []T {
	out := make([]T, 0, len(rows))

	query := strings.ToLower(strings.TrimSpace(s.Search))
	for _, row := range rows {
		if query != "" && !matchesAny(row, s.SearchKeys, query) {
			continue
		}
		if !matchesFilters(row, s.Filters) {
			continue
		}
		out = append(out, row)
	}

	if s.SortKey == "" || s.SortDirection == SortNone {
		return out
	}

	collator := collate.New(language.English)
	desc := s.SortDirection == SortDesc
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Field(s.SortKey), out[j].Field(s.SortKey)
		// 空值始终排在最后
		switch {
		case a == nil && b == nil:
			return false
		case a == nil:
			return false
		case b == nil:
			return true
		}
		c := compareValues(collator, a, b)
		if desc {
			return c > 0
		}
		return c < 0
	})
	return out
}

func matchesAny(row FieldGetter, keys []string, query string) bool {
	for _, key := range keys {
		if strings.Contains(strings.ToLower(valueText(row.Field(key))), query) {
			return true
		}
	}
	return false
}

func matchesFilters(row FieldGetter, filters []TableFilter) bool {
	for _, f := range filters {
		v := row.Field(f.Key)
		if v == nil {
			return false
		}
		if !strings.Contains(strings.ToLower(valueText(v)), strings.ToLower(f.Value)) {
			return false
		}
	}
	return true
}

// compareValues 数字按数值比较，其余按本地化字符串比较
func compareValues(collator *collate.Collator, a, b any) int {
	na, okA := numericValue(a)
	nb, okB := numericValue(b)
	if okA && okB {
		return na.Cmp(nb)
	}
	return collator.CompareString(valueText(a), valueText(b))
}

func numericValue(v any) (decimal.Decimal, bool) {
	switch x := v.(type) {
	case decimal.Decimal:
		return x, true
	case int:
		return decimal.NewFromInt(int64(x)), true
	case int64:
		return decimal.NewFromInt(x), true
	case float64:
		return decimal.NewFromFloat(x), true
	}
	return decimal.Zero, false
}

func valueText(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case decimal.Decimal:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}
