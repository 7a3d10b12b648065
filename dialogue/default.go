package dialogue

import (
	"github.com/tbxark/sobaguide/geo"
	"github.com/tbxark/sobaguide/types"
)

const (
	StepRegion = iota
	StepPrefecture
	StepMunicipality
	StepCategory
	StepFreeText
)

var DefaultCategories = []string{
	"経済的支援（生活費・住居費など）",
	"就労支援（仕事探し・職業訓練など）",
	"子育て支援（保育・教育など）",
	"健康・医療支援（医療費・健康相談など）",
	"介護支援（介護サービス・介護相談など）",
	"住まいの支援（住宅相談・家賃補助など）",
	"こころの健康支援（メンタルヘルス・相談など）",
	"法律相談（借金・トラブルなど）",
}

// DefaultQuestionnaire builds the region → prefecture → municipality →
// support category → free text flow. When categories is empty
// DefaultCategories is used.
func DefaultQuestionnaire(lookup geo.Lookup, categories []string) Questionnaire {
	if len(categories) == 0 {
		categories = DefaultCategories
	}
	return Questionnaire{
		Steps: []types.Step{
			{ID: 1, Prompt: "どの地域に住んでいますか？", Kind: types.StepClosedChoice, Options: lookup.Regions()},
			{ID: 2, Prompt: "どの都道府県に住んでいますか？", Kind: types.StepClosedChoice},
			{ID: 3, Prompt: "どの市町村に住んでいますか？", Kind: types.StepClosedChoice},
			{ID: 4, Prompt: "どんな制度を希望されていますか？", Kind: types.StepClosedChoice, Options: append([]string(nil), categories...)},
			{ID: 5, Prompt: "追加で情報を入力したいことがあれば、こちらに記入してください。", Kind: types.StepFreeText},
		},
		Dependencies: map[int]Resolver{
			StepRegion:     lookup.PrefecturesOf,
			StepPrefecture: lookup.CitiesOf,
		},
	}
}
