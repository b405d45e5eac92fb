package repository

import (
	"context"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"
	"time"

	"hotel/infras/otel"
	"hotel/shared/constant"
	"hotel/shared/dto"
	"hotel/shared/failure"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// Memory keeps records in process and evaluates the same filter groups the
// postgres repository turns into SQL. Records are kept in insertion order.
// Slice fields are copied on the way in and out so callers never share backing
// arrays with the store.
type Memory[T any] struct {
	mu            sync.RWMutex
	otel          otel.Otel
	entity        string
	primaryColumn string
	fields        map[string][]int
	slicePaths    [][]int
	records       []T
}

func NewMemory[T any](entityName, primaryColumn string, otl otel.Otel) *Memory[T] {
	var zero T

	typ := reflect.TypeOf(zero)
	fields := map[string][]int{}
	indexFields(typ, nil, fields)

	return &Memory[T]{
		otel:          otl,
		entity:        entityName,
		primaryColumn: primaryColumn,
		fields:        fields,
		slicePaths:    indexSlices(typ, nil),
	}
}

func indexSlices(typ reflect.Type, parent []int) [][]int {
	var paths [][]int

	for i := range typ.NumField() {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}

		path := append(slices.Clone(parent), i)

		switch field.Type.Kind() { //nolint:exhaustive
		case reflect.Slice:
			paths = append(paths, path)
		case reflect.Struct:
			if field.Anonymous {
				paths = append(paths, indexSlices(field.Type, path)...)
			}
		}
	}

	return paths
}

// detach returns model with every slice field pointing at a fresh backing array.
func (m *Memory[T]) detach(model T) T {
	if len(m.slicePaths) == 0 {
		return model
	}

	value := reflect.ValueOf(&model).Elem()

	for _, path := range m.slicePaths {
		field := value.FieldByIndex(path)
		if field.IsNil() {
			continue
		}

		clone := reflect.MakeSlice(field.Type(), field.Len(), field.Len())
		reflect.Copy(clone, field)
		field.Set(clone)
	}

	return model
}

func indexFields(typ reflect.Type, parent []int, fields map[string][]int) {
	for i := range typ.NumField() {
		field := typ.Field(i)
		path := append(slices.Clone(parent), i)

		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			indexFields(field.Type, path, fields)

			continue
		}

		tag := field.Tag.Get("db")
		if tag == "" || tag == "-" {
			continue
		}

		fields[tag] = path
	}
}

func (m *Memory[T]) spanName(op string) string {
	return fmt.Sprintf("%s.%s.memory.%s", constant.OtelRepositoryScopeName, m.entity, op)
}

func (m *Memory[T]) value(model *T, column string) (reflect.Value, bool) {
	path, ok := m.fields[column]
	if !ok {
		return reflect.Value{}, false
	}

	return reflect.ValueOf(model).Elem().FieldByIndex(path), true
}

func (m *Memory[T]) Insert(ctx context.Context, model T) error {
	_, scope := m.otel.NewScope(ctx, constant.OtelRepositoryScopeName, m.spanName("Insert"))
	defer scope.End()

	m.mu.Lock()
	defer m.mu.Unlock()

	return m.insert(model)
}

func (m *Memory[T]) insert(model T) error {
	key, ok := m.value(&model, m.primaryColumn)
	if ok {
		for i := range m.records {
			existing, _ := m.value(&m.records[i], m.primaryColumn)
			if equalValues(existing.Interface(), key.Interface()) {
				return failure.Conflictf("%s already exists", m.entity)
			}
		}
	}

	m.records = append(m.records, m.detach(model))

	return nil
}

func (m *Memory[T]) InsertBulk(ctx context.Context, models []T) error {
	_, scope := m.otel.NewScope(ctx, constant.OtelRepositoryScopeName, m.spanName("InsertBulk"))
	defer scope.End()

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, model := range models {
		if err := m.insert(model); err != nil {
			scope.TraceError(err)

			return err
		}
	}

	return nil
}

func (m *Memory[T]) Exist(ctx context.Context, filter dto.FilterGroup) (bool, error) {
	_, scope := m.otel.NewScope(ctx, constant.OtelRepositoryScopeName, m.spanName("Exist"))
	defer scope.End()

	if len(filter.Filters) == 0 {
		return false, errRequiredFilter
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := range m.records {
		if m.matchGroup(&m.records[i], filter) {
			return true, nil
		}
	}

	return false, nil
}

func (m *Memory[T]) Get(ctx context.Context, filter dto.FilterGroup, _ ...string) (T, error) {
	_, scope := m.otel.NewScope(ctx, constant.OtelRepositoryScopeName, m.spanName("Get"))
	defer scope.End()

	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := range m.records {
		if m.matchGroup(&m.records[i], filter) {
			return m.detach(m.records[i]), nil
		}
	}

	var zero T

	return zero, nil
}

func (m *Memory[T]) GetAll(ctx context.Context, params dto.QueryParams, filter dto.FilterGroup, _ ...string) ([]T, error) {
	_, scope := m.otel.NewScope(ctx, constant.OtelRepositoryScopeName, m.spanName("GetAll"))
	defer scope.End()

	m.mu.RLock()
	matched := []T{}

	for i := range m.records {
		if m.matchGroup(&m.records[i], filter) {
			matched = append(matched, m.detach(m.records[i]))
		}
	}
	m.mu.RUnlock()

	if _, ok := m.fields[params.SortBy]; ok && params.SortDir != "" {
		desc := params.SortDir == dto.SortDirDesc

		slices.SortStableFunc(matched, func(a, b T) int {
			left, _ := m.value(&a, params.SortBy)
			right, _ := m.value(&b, params.SortBy)

			cmp, _ := compareValues(left.Interface(), right.Interface())
			if desc {
				return -cmp
			}

			return cmp
		})
	}

	start, end := 0, len(matched)

	if params.Limit > 0 {
		start = min(params.Offset(), len(matched))
		end = min(start+params.Limit, len(matched))
	}

	return matched[start:end], nil
}

func (m *Memory[T]) Count(ctx context.Context, filter dto.FilterGroup) (int, error) {
	_, scope := m.otel.NewScope(ctx, constant.OtelRepositoryScopeName, m.spanName("Count"))
	defer scope.End()

	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0

	for i := range m.records {
		if m.matchGroup(&m.records[i], filter) {
			count++
		}
	}

	return count, nil
}

func (m *Memory[T]) Sum(ctx context.Context, column string, filter dto.FilterGroup) (decimal.Decimal, error) {
	_, scope := m.otel.NewScope(ctx, constant.OtelRepositoryScopeName, m.spanName("Sum"))
	defer scope.End()

	if _, ok := m.fields[column]; !ok {
		return decimal.Zero, fmt.Errorf("unknown column %q (%s)", column, m.entity)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	total := decimal.Zero

	for i := range m.records {
		if !m.matchGroup(&m.records[i], filter) {
			continue
		}

		val, _ := m.value(&m.records[i], column)

		amount, ok := toDecimal(val.Interface())
		if !ok {
			return decimal.Zero, fmt.Errorf("column %q is not numeric (%s)", column, m.entity)
		}

		total = total.Add(amount)
	}

	return total, nil
}

func (m *Memory[T]) Update(ctx context.Context, mod map[string]any, filter dto.FilterGroup) error {
	_, scope := m.otel.NewScope(ctx, constant.OtelRepositoryScopeName, m.spanName("Update"))
	defer scope.End()

	if len(filter.Filters) == 0 {
		return errRequiredFilter
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.records {
		if !m.matchGroup(&m.records[i], filter) {
			continue
		}

		updated := m.records[i]

		for column, raw := range mod {
			field, ok := m.value(&updated, column)
			if !ok {
				return fmt.Errorf("failed to update data (%s): unknown column %q", m.entity, column)
			}

			if err := assign(field, raw); err != nil {
				scope.TraceError(err)

				return fmt.Errorf("failed to update data (%s): column %q: %w", m.entity, column, err)
			}
		}

		m.records[i] = m.detach(updated)
	}

	return nil
}

func (m *Memory[T]) Delete(ctx context.Context, filter dto.FilterGroup) error {
	_, scope := m.otel.NewScope(ctx, constant.OtelRepositoryScopeName, m.spanName("Delete"))
	defer scope.End()

	if len(filter.Filters) == 0 {
		return errRequiredFilter
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.records = slices.DeleteFunc(m.records, func(record T) bool {
		return m.matchGroup(&record, filter)
	})

	return nil
}

func (m *Memory[T]) matchGroup(model *T, group dto.FilterGroup) bool {
	if len(group.Filters) == 0 {
		return true
	}

	anyMatch := strings.EqualFold(group.Operator, dto.FilterGroupOperatorOr)

	for _, item := range group.Filters {
		var ok bool

		switch filter := item.(type) {
		case dto.Filter:
			ok = m.matchFilter(model, filter)
		case dto.FilterGroup:
			ok = m.matchGroup(model, filter)
		default:
			continue
		}

		if anyMatch && ok {
			return true
		}

		if !anyMatch && !ok {
			return false
		}
	}

	return !anyMatch
}

func (m *Memory[T]) matchFilter(model *T, filter dto.Filter) bool {
	field, ok := m.value(model, filter.Field)
	if !ok {
		log.Warn().Str("entity", m.entity).Str("field", filter.Field).Msg("filter on unknown column never matches")

		return false
	}

	current := field.Interface()

	switch filter.Operator {
	case dto.FilterOperatorEq:
		return equalValues(current, filter.Value)
	case dto.FilterOperatorNotEq:
		return !equalValues(current, filter.Value)
	case dto.FilterOperatorLike:
		text := deref(current)
		if text == nil {
			return false
		}

		return strings.Contains(strings.ToLower(fmt.Sprint(text)), strings.ToLower(fmt.Sprint(filter.Value)))
	case dto.FilterOperatorIn:
		values := reflect.ValueOf(filter.Value)
		if values.Kind() != reflect.Slice && values.Kind() != reflect.Array {
			return false
		}

		for idx := range values.Len() {
			if equalValues(current, values.Index(idx).Interface()) {
				return true
			}
		}

		return false
	case dto.FilterOperatorLessEq:
		cmp, ok := compareValues(current, filter.Value)

		return ok && cmp <= 0
	case dto.FilterOperatorGreaterEq:
		cmp, ok := compareValues(current, filter.Value)

		return ok && cmp >= 0
	case dto.FilterOperatorLess:
		cmp, ok := compareValues(current, filter.Value)

		return ok && cmp < 0
	case dto.FilterOperatorGreater:
		cmp, ok := compareValues(current, filter.Value)

		return ok && cmp > 0
	case dto.FilterIsNull:
		return field.IsZero()
	case dto.FilterIsNotNull:
		return !field.IsZero()
	default:
		log.Warn().Str("entity", m.entity).Str("operator", filter.Operator).Msg("unsupported filter operator in memory store")

		return false
	}
}

func assign(field reflect.Value, raw any) error {
	if raw == nil {
		field.Set(reflect.Zero(field.Type()))

		return nil
	}

	val := reflect.ValueOf(raw)
	for val.Kind() == reflect.Pointer && field.Kind() != reflect.Pointer {
		if val.IsNil() {
			field.Set(reflect.Zero(field.Type()))

			return nil
		}

		val = val.Elem()
	}

	switch {
	case val.Type().AssignableTo(field.Type()):
		field.Set(val)
	case val.Type().ConvertibleTo(field.Type()):
		field.Set(val.Convert(field.Type()))
	default:
		return fmt.Errorf("cannot assign %s to %s", val.Type(), field.Type())
	}

	return nil
}

func equalValues(left, right any) bool {
	if cmp, ok := compareValues(left, right); ok {
		return cmp == 0
	}

	return reflect.DeepEqual(left, right)
}

// compareValues orders two values of compatible kinds. The second return is
// false when the kinds cannot be ordered against each other.
func compareValues(left, right any) (int, bool) {
	left, right = deref(left), deref(right)

	switch lv := left.(type) {
	case time.Time:
		rv, ok := right.(time.Time)
		if !ok {
			return 0, false
		}

		return lv.Compare(rv), true
	case string:
		rv, ok := right.(string)
		if !ok {
			rv = fmt.Sprint(right)
		}

		return strings.Compare(lv, rv), true
	case bool:
		rv, ok := right.(bool)
		if !ok || lv == rv {
			return 0, ok
		}

		if !lv {
			return -1, true
		}

		return 1, true
	}

	ld, lok := toDecimal(left)
	rd, rok := toDecimal(right)

	if lok && rok {
		return ld.Cmp(rd), true
	}

	return 0, false
}

func deref(value any) any {
	val := reflect.ValueOf(value)
	for val.IsValid() && val.Kind() == reflect.Pointer {
		if val.IsNil() {
			return nil
		}

		val = val.Elem()
	}

	if !val.IsValid() {
		return nil
	}

	switch val.Kind() {
	case reflect.String:
		return val.String()
	case reflect.Bool:
		return val.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return val.Int()
	case reflect.Float32, reflect.Float64:
		return val.Float()
	default:
		return val.Interface()
	}
}

func toDecimal(value any) (decimal.Decimal, bool) {
	switch v := deref(value).(type) {
	case decimal.Decimal:
		return v, true
	case int:
		return decimal.NewFromInt(int64(v)), true
	case int32:
		return decimal.NewFromInt32(v), true
	case int64:
		return decimal.NewFromInt(v), true
	case float32:
		return decimal.NewFromFloat32(v), true
	case float64:
		return decimal.NewFromFloat(v), true
	}

	return decimal.Zero, false
}
