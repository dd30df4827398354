// Package overview строит доску навыков: для каждого названия навыка
// список тех, кто его преподаёт, и тех, кто хочет его изучить.
// Доска сортируется по интересу и режется на страницы.
// Все функции пакета чистые и работают над снимком профилей.
package overview

import (
	"sort"

	"github.com/skillswap/skillswap-hub/internal/domain/profile"
)

// Member - пользователь в списке навыка.
type Member struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// SkillAggregate - сводка по одному навыку.
// Всегда TeachersCount == len(Teachers) и LearnersCount == len(Learners).
type SkillAggregate struct {
	Name          string   `json:"name"`
	Teachers      []Member `json:"teachers"`
	Learners      []Member `json:"learners"`
	TeachersCount int      `json:"teachersCount"`
	LearnersCount int      `json:"learnersCount"`
}

// Total - суммарный интерес, по нему идёт сортировка.
func (a SkillAggregate) Total() int {
	return a.TeachersCount + a.LearnersCount
}

// Options настраивают агрегацию.
type Options struct {
	// DedupePerUser - учитывать пользователя не больше одного раза на навык
	// и роль, даже если в его списке название повторяется.
	DedupePerUser bool
}

// DefaultOptions returns the options used by the API.
func DefaultOptions() Options {
	return Options{DedupePerUser: true}
}

// index keeps aggregates keyed by name plus their first-seen order.
type index struct {
	byName map[string]*SkillAggregate
	order  []string
}

func newIndex() *index {
	return &index{byName: make(map[string]*SkillAggregate)}
}

func (ix *index) ensure(name string) *SkillAggregate {
	if agg, ok := ix.byName[name]; ok {
		return agg
	}
	agg := &SkillAggregate{
		Name:     name,
		Teachers: []Member{},
		Learners: []Member{},
	}
	ix.byName[name] = agg
	ix.order = append(ix.order, name)
	return agg
}

// Aggregate проходит по профилям и возвращает по одной сводке на каждое
// уникальное название в порядке первого появления.
// Названия сравниваются с учётом регистра, пустые пропускаются.
func Aggregate(profiles []*profile.Profile, opts Options) []SkillAggregate {
	ix := newIndex()

	for _, p := range profiles {
		if p == nil {
			continue
		}
		m := Member{ID: p.ID, Name: p.Name, Email: p.Email}

		for _, name := range roleNames(p.SkillsToTeach, opts.DedupePerUser) {
			agg := ix.ensure(name)
			agg.Teachers = append(agg.Teachers, m)
			agg.TeachersCount++
		}
		for _, name := range roleNames(p.SkillsToLearn, opts.DedupePerUser) {
			agg := ix.ensure(name)
			agg.Learners = append(agg.Learners, m)
			agg.LearnersCount++
		}
	}

	out := make([]SkillAggregate, 0, len(ix.order))
	for _, name := range ix.order {
		out = append(out, *ix.byName[name])
	}
	return out
}

func roleNames(names []string, dedupe bool) []string {
	out := make([]string, 0, len(names))
	var seen map[string]struct{}
	if dedupe {
		seen = make(map[string]struct{}, len(names))
	}
	for _, n := range names {
		if n == "" {
			continue
		}
		if dedupe {
			if _, dup := seen[n]; dup {
				continue
			}
			seen[n] = struct{}{}
		}
		out = append(out, n)
	}
	return out
}

// SortByInterest сортирует сводки по убыванию Total на месте.
// Сортировка стабильная: при равенстве сохраняется порядок появления,
// и границы страниц не сдвигаются между вызовами на тех же данных.
func SortByInterest(aggs []SkillAggregate) {
	sort.SliceStable(aggs, func(i, j int) bool {
		return aggs[i].Total() > aggs[j].Total()
	})
}
