package normalize

import (
	"strings"

	"go-campus-harvester/internal/jsonutil"
	"go-campus-harvester/internal/models"

	"golang.org/x/text/language"
)

// DefaultSubjectLocale is the preferred variant of localized subject names.
var DefaultSubjectLocale = language.MustParse("zh-CN")

// fallback key holding the generic internationalized name
const i18nKey = "i18n"

// BytedanceFile cleans the raw bytedance artifact at path.
func BytedanceFile(path string, locale language.Tag) ([]models.BytedanceRecord, error) {
	raw, err := readRaw(path)
	if err != nil {
		return nil, err
	}
	return Bytedance(raw, locale), nil
}

// Bytedance cleans job_post_list entries. The capture usually stores the bare
// list, but a full search response ({"data": {"job_post_list": [...]}}) is
// accepted as well.
func Bytedance(raw any, locale language.Tag) []models.BytedanceRecord {
	items := entries(raw)
	if list, ok := jsonutil.List(raw, "data", "job_post_list"); ok {
		items = entries(list)
	}

	records := make([]models.BytedanceRecord, 0, len(items))
	for _, item := range items {
		jobID, ok := asString(item["id"])
		if !ok {
			continue
		}

		primaryCity := nameOf(item, "city_info")

		var cityNames []any
		if cities, ok := item["city_list"].([]any); ok {
			for _, c := range cities {
				if m, ok := c.(map[string]any); ok {
					cityNames = append(cityNames, m["name"])
				}
			}
		}
		if primaryCity != nil {
			cityNames = append(cityNames, *primaryCity)
		}

		publishTime := item["publish_time"]
		records = append(records, models.BytedanceRecord{
			Source:         models.SourceBytedance,
			JobID:          jobID,
			Code:           optString(item["code"]),
			Title:          optString(item["title"]),
			Category:       nameOf(item, "job_category"),
			CategoryParent: nameOf(item, "job_category", "parent"),
			RecruitType:    nameOf(item, "recruit_type"),
			Subject:        subjectName(item, locale),
			PrimaryCity:    primaryCity,
			Locations:      uniqStrings(cityNames),
			PublishTimeMs:  publishTime,
			PublishTimeISO: msToISO(publishTime),
			Description:    optString(item["description"]),
			Requirement:    optString(item["requirement"]),
		})
	}

	return dedupeBy(records, func(r models.BytedanceRecord) string { return r.JobID })
}

// subjectName picks the locale variant of job_subject.name, then the i18n one.
func subjectName(item map[string]any, locale language.Tag) *string {
	names, ok := jsonutil.Map(item, "job_subject", "name")
	if !ok {
		return nil
	}
	if v := names[localeKey(locale)]; jsonutil.Truthy(v) {
		return optString(v)
	}
	return optString(names[i18nKey])
}

// localeKey renders a tag the way the API keys its names: zh-CN -> "zh_cn".
func localeKey(tag language.Tag) string {
	base, _ := tag.Base()
	key := strings.ToLower(base.String())
	if region, conf := tag.Region(); conf != language.No {
		key += "_" + strings.ToLower(region.String())
	}
	return key
}
