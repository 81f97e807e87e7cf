package normalize

import (
	"go-campus-harvester/internal/models"
)

// AlibabaFile cleans the raw alibaba artifact at path.
func AlibabaFile(path string) ([]models.AlibabaRecord, error) {
	raw, err := readRaw(path)
	if err != nil {
		return nil, err
	}
	return Alibaba(raw), nil
}

// Alibaba cleans content.datas entries collected from the position search.
// Tracking fields (trackId, bucket, empty maps) are simply not carried over.
func Alibaba(raw any) []models.AlibabaRecord {
	items := entries(raw)

	records := make([]models.AlibabaRecord, 0, len(items))
	for _, item := range items {
		jobID, ok := asString(item["id"])
		if !ok {
			continue
		}

		var gradFrom, gradTo any
		if grad, ok := item["graduationTime"].(map[string]any); ok {
			gradFrom, gradTo = grad["from"], grad["to"]
		}
		modifyTime := item["modifyTime"]

		records = append(records, models.AlibabaRecord{
			Source:             models.SourceAlibabaStar,
			JobID:              jobID,
			Title:              optString(item["name"]),
			Status:             optString(item["status"]),
			Category:           optString(item["categoryName"]),
			CategoryType:       optString(item["categoryType"]),
			BatchName:          optString(item["batchName"]),
			CircleNames:        listOrEmpty(item["circleNames"]),
			WorkLocations:      listOrEmpty(item["workLocations"]),
			InterviewLocations: listOrEmpty(item["interviewLocations"]),
			Channels:           listOrEmpty(item["channels"]),
			PositionURL:        optString(item["positionUrl"]),
			ModifyTimeMs:       modifyTime,
			ModifyTimeISO:      msToISO(modifyTime),
			GraduationFromMs:   gradFrom,
			GraduationFromISO:  msToISO(gradFrom),
			GraduationToMs:     gradTo,
			GraduationToISO:    msToISO(gradTo),
			Description:        optString(item["description"]),
			Requirement:        optString(item["requirement"]),
		})
	}

	return dedupeBy(records, func(r models.AlibabaRecord) string { return r.JobID })
}
