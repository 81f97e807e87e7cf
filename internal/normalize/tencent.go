package normalize

import (
	"go-campus-harvester/internal/models"
)

// TencentFile cleans the raw tencent detail artifact at path.
func TencentFile(path string) ([]models.TencentRecord, error) {
	raw, err := readRaw(path)
	if err != nil {
		return nil, err
	}
	return Tencent(raw), nil
}

// Tencent cleans posting details. Trailing null / {} entries left by failed
// detail fetches are dropped, and each department's comment text is stripped
// from the intention groups.
func Tencent(raw any) []models.TencentRecord {
	items := entries(raw)

	records := make([]models.TencentRecord, 0, len(items))
	for _, item := range items {
		postID, ok := asString(item["postId"])
		if !ok {
			continue
		}

		records = append(records, models.TencentRecord{
			Source:           models.SourceTencent,
			JobID:            postID,
			URL:              models.TencentDetailURL(postID),
			Title:            optString(item["title"]),
			Category:         optString(item["tidName"]),
			ProjectName:      optString(item["projectName"]),
			RecruitLabelName: optString(item["recruitLabelName"]),
			RecruitType:      item["recruitType"],
			WorkLocations:    uniqStrings(listOrEmpty(item["workCityList"])),
			RecruitCityList:  uniqStrings(listOrEmpty(item["recruitCityList"])),
			DepartmentIDs:    departmentIDs(item["ideptId"]),
			IntentionBGDs:    compactIntentions(item["intentionBGDList"]),
			Description:      optString(item["desc"]),
			Requirement:      optString(item["request"]),
		})
	}

	return dedupeBy(records, func(r models.TencentRecord) string { return r.JobID })
}

func compactIntentions(v any) []models.IntentionGroup {
	groups := []models.IntentionGroup{}
	list, ok := v.([]any)
	if !ok {
		return groups
	}

	for _, g := range list {
		bgd, ok := g.(map[string]any)
		if !ok || len(bgd) == 0 {
			continue
		}
		groups = append(groups, models.IntentionGroup{
			ID:             bgd["id"],
			Title:          bgd["title"],
			ShowTitle:      bgd["showTitle"],
			ShowTxt:        bgd["showTxt"],
			DepartmentList: compactDepartments(bgd["departmentList"]),
		})
	}
	return groups
}

func compactDepartments(v any) []models.Department {
	deps := []models.Department{}
	list, ok := v.([]any)
	if !ok {
		return deps
	}

	for _, d := range list {
		dep, ok := d.(map[string]any)
		if !ok || len(dep) == 0 {
			continue
		}
		deps = append(deps, models.Department{
			ID:           dep["id"],
			Name:         dep["name"],
			Bgid:         dep["bgid"],
			Ordering:     dep["ordering"],
			EnableFlag:   dep["enableFlag"],
			WorkCityList: listOrEmpty(dep["workCityList"]),
		})
	}
	return deps
}
