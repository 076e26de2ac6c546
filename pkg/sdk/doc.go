// Package athletedex is a Go client for the athletedex discovery API.
//
//	client, _ := athletedex.New("http://localhost:8080")
//	q := athletedex.NewQuery().
//	    Search("smith").
//	    Gender(athletedex.GenderFemale).
//	    ScoreBetween(60, 100).
//	    PageSize(50)
//	page, meta, err := client.List(ctx, q)
//
// Server rejections come back as *APIError and match ErrValidation,
// ErrRateLimited, ErrInvalidPattern or ErrServer with errors.Is.
package athletedex
