package store

import "devcamper/internal/query"

// BootcampFields 可用於 filter/select/sort 的 bootcamp 欄位
var BootcampFields = query.Schema{
	"user":                      query.KindObjectID,
	"name":                      query.KindString,
	"slug":                      query.KindString,
	"description":               query.KindString,
	"website":                   query.KindString,
	"phone":                     query.KindString,
	"email":                     query.KindString,
	"address":                   query.KindString,
	"location":                  query.KindObject,
	"location.formattedAddress": query.KindString,
	"location.street":           query.KindString,
	"location.city":             query.KindString,
	"location.state":            query.KindString,
	"location.zipcode":          query.KindString,
	"location.country":          query.KindString,
	"careers":                   query.KindString,
	"averageRating":             query.KindNumber,
	"averageCost":               query.KindNumber,
	"photo":                     query.KindString,
	"housing":                   query.KindBool,
	"jobAssistance":             query.KindBool,
	"jobGuarantee":              query.KindBool,
	"acceptGi":                  query.KindBool,
	"createdAt":                 query.KindTime,
}

// CourseFields 可用於 filter/select/sort 的 course 欄位
var CourseFields = query.Schema{
	"bootcamp":             query.KindObjectID,
	"user":                 query.KindObjectID,
	"title":                query.KindString,
	"description":          query.KindString,
	"weeks":                query.KindString,
	"tuition":              query.KindNumber,
	"minimumSkill":         query.KindString,
	"scholarshipAvailable": query.KindBool,
	"createdAt":            query.KindTime,
}

// UserFields 可用於 filter/select/sort 的使用者欄位，不含密碼
var UserFields = query.Schema{
	"name":      query.KindString,
	"email":     query.KindString,
	"role":      query.KindString,
	"createdAt": query.KindTime,
}
