package searchdb

import "time"

// Document is one processed source file. ID is the absolute file path.
type Document struct {
	ID         string    `json:"id"`
	Path       string    `json:"path"`
	Name       string    `json:"name"`
	Content    string    `json:"content"`
	Size       int64     `json:"size"`
	ModTime    time.Time `json:"mod_time"`
	TokenCount int       `json:"token_count"`
}

type Result struct {
	ID         string  `json:"id"`
	Path       string  `json:"file_path"`
	Name       string  `json:"name"`
	Score      float64 `json:"score"`
	Size       int64   `json:"size"`
	ModTime    string  `json:"mod_time"`
	TokenCount int     `json:"token_count"`
}

type Response struct {
	Results    []Result `json:"results"`
	Total      uint64   `json:"total"`
	MaxScore   float64  `json:"max_score"`
	SearchTime string   `json:"search_time"`
}
