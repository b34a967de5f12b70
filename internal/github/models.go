package github

// Repo is one repository from a search result.
type Repo struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	FullName  string `json:"full_name"`
	URL       string `json:"html_url"`
	StarCount int    `json:"stargazers_count"`
	ForkCount int    `json:"forks"`
	Owner     *Owner `json:"owner,omitempty"`
}

type Owner struct {
	AvatarURL string `json:"avatar_url"`
}

// SearchReposOutput is the body of a repository search.
type SearchReposOutput struct {
	Repos      []Repo `json:"items"`
	TotalCount int    `json:"total_count"`
}

// User is one entry of the user listing. Its tags name the camelCase keys
// produced by snake-to-camel decoding.
type User struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	AvatarURL string `json:"avatarUrl"`
	HTMLURL   string `json:"htmlUrl"`
}
