package services

import "fleet-compliance/internal/models"

// defectRule maps one inspection item to the submitted values that count as a
// mechanical defect. The table is closed: items without a rule (tire
// pressures) never produce defects.
type defectRule struct {
	field    string
	value    func(a models.InspectionAnswers) string
	triggers []string
}

var defectRules = []defectRule{
	{"oil", func(a models.InspectionAnswers) string { return a.OilCheck }, []string{models.AnswerNotOK, models.AnswerLow}},
	{"water", func(a models.InspectionAnswers) string { return a.WaterCheck }, []string{models.AnswerNotOK, models.AnswerLow}},
	{"brakes", func(a models.InspectionAnswers) string { return a.BrakesCondition }, []string{models.ConditionPoor}},
	{"lights", func(a models.InspectionAnswers) string { return a.LightsCondition }, []string{models.ConditionPoor}},
	{"mirrors", func(a models.InspectionAnswers) string { return a.MirrorsCondition }, []string{models.ConditionPoor}},
	{"helmet", func(a models.InspectionAnswers) string { return a.HelmetCondition }, []string{models.ConditionPoor}},
	{"box screws", func(a models.InspectionAnswers) string { return a.BoxScrewsTightening }, []string{models.ActionNotDone}},
	{"box rail", func(a models.InspectionAnswers) string { return a.BoxRailLubrication }, []string{models.ActionNotDone}},
	{"chain", func(a models.InspectionAnswers) string { return a.ChainLubrication }, []string{models.ActionNotDone}},
}

// EvaluateDefects runs the submitted answers through the fixed rule table.
// Pure and deterministic: output order follows the table, unsubmitted items
// are not evaluated.
func EvaluateDefects(answers models.InspectionAnswers) []models.Defect {
	var defects []models.Defect
	for _, rule := range defectRules {
		value := rule.value(answers)
		if value == "" {
			continue
		}
		for _, trigger := range rule.triggers {
			if value == trigger {
				defects = append(defects, models.Defect{Field: rule.field, Value: value})
				break
			}
		}
	}
	return defects
}
