package overseerr

import "strconv"

// Field names follow the server's camelCase JSON; no case conversion is applied.

// Permission bits used by IsAdmin.
const (
	PermissionAdmin = 2
)

// OwnerUserID is the id of the account that installed the server.
const OwnerUserID = 1

// User mirrors /auth/me and /user entries.
type User struct {
	ID           int    `json:"id"`
	Email        string `json:"email"`
	Username     string `json:"username,omitempty"`
	PlexToken    string `json:"plexToken,omitempty"`
	PlexUsername string `json:"plexUsername,omitempty"`
	UserType     int    `json:"userType"`
	Permissions  int    `json:"permissions"`
	Avatar       string `json:"avatar,omitempty"`
	CreatedAt    string `json:"createdAt"`
	UpdatedAt    string `json:"updatedAt"`
	RequestCount int    `json:"requestCount,omitempty"`
}

// IsOwner reports whether the user is the server owner.
func (u User) IsOwner() bool {
	return u.ID == OwnerUserID
}

// IsAdmin reports whether the admin permission bit is set.
func (u User) IsAdmin() bool {
	return u.Permissions&PermissionAdmin != 0
}

// DisplayName prefers the username, then the Plex username, then the email.
func (u User) DisplayName() string {
	switch {
	case u.Username != "":
		return u.Username
	case u.PlexUsername != "":
		return u.PlexUsername
	default:
		return u.Email
	}
}

// Media is the server's tracking record for a title.
type Media struct {
	ID                    int         `json:"id"`
	MediaType             MediaType   `json:"mediaType,omitempty"`
	TmdbID                int         `json:"tmdbId,omitempty"`
	TvdbID                int         `json:"tvdbId,omitempty"`
	ImdbID                string      `json:"imdbId,omitempty"`
	Status                MediaStatus `json:"status,omitempty"`
	Status4k              MediaStatus `json:"status4k,omitempty"`
	CreatedAt             string      `json:"createdAt"`
	UpdatedAt             string      `json:"updatedAt"`
	LastSeasonChange      string      `json:"lastSeasonChange,omitempty"`
	MediaAdded            string      `json:"mediaAdded,omitempty"`
	ServiceID             int         `json:"serviceId,omitempty"`
	ServiceID4k           int         `json:"serviceId4k,omitempty"`
	ExternalServiceID     int         `json:"externalServiceId,omitempty"`
	ExternalServiceID4k   int         `json:"externalServiceId4k,omitempty"`
	ExternalServiceSlug   string      `json:"externalServiceSlug,omitempty"`
	ExternalServiceSlug4k string      `json:"externalServiceSlug4k,omitempty"`
	RatingKey             string      `json:"ratingKey,omitempty"`
	RatingKey4k           string      `json:"ratingKey4k,omitempty"`
}

// EffectiveStatus returns Status, or MediaStatusUnknown when absent.
func (m Media) EffectiveStatus() MediaStatus {
	if !m.Status.Valid() {
		return MediaStatusUnknown
	}
	return m.Status
}

// Genre is a TMDB genre.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// ProductionCompany is a studio or TV network.
type ProductionCompany struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	LogoPath      string `json:"logoPath,omitempty"`
	OriginCountry string `json:"originCountry,omitempty"`
}

// CastMember is one credited performer.
type CastMember struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Character   string `json:"character"`
	ProfilePath string `json:"profilePath,omitempty"`
	Order       int    `json:"order"`
}

// CrewMember is one credited crew member.
type CrewMember struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Job         string `json:"job"`
	Department  string `json:"department"`
	ProfilePath string `json:"profilePath,omitempty"`
}

// Credits groups cast and crew.
type Credits struct {
	Cast []CastMember `json:"cast"`
	Crew []CrewMember `json:"crew"`
}

// Video is a trailer or clip.
type Video struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Name string `json:"name"`
	Site string `json:"site"`
	Type string `json:"type"`
}

// Movie mirrors movie detail and discover results.
type Movie struct {
	ID                  int                 `json:"id"`
	ImdbID              string              `json:"imdbId,omitempty"`
	Adult               bool                `json:"adult"`
	BackdropPath        string              `json:"backdropPath,omitempty"`
	PosterPath          string              `json:"posterPath,omitempty"`
	Budget              int                 `json:"budget,omitempty"`
	Genres              []Genre             `json:"genres,omitempty"`
	Homepage            string              `json:"homepage,omitempty"`
	OriginalLanguage    string              `json:"originalLanguage"`
	OriginalTitle       string              `json:"originalTitle"`
	Overview            string              `json:"overview,omitempty"`
	Popularity          float64             `json:"popularity"`
	ProductionCompanies []ProductionCompany `json:"productionCompanies,omitempty"`
	ReleaseDate         string              `json:"releaseDate,omitempty"`
	Revenue             int64               `json:"revenue,omitempty"`
	Runtime             int                 `json:"runtime,omitempty"`
	Status              string              `json:"status,omitempty"`
	Tagline             string              `json:"tagline,omitempty"`
	Title               string              `json:"title"`
	Video               bool                `json:"video"`
	VoteAverage         float64             `json:"voteAverage"`
	VoteCount           int                 `json:"voteCount"`
	Credits             *Credits            `json:"credits,omitempty"`
	MediaInfo           *Media              `json:"mediaInfo,omitempty"`
}

// ReleaseYear returns the year part of ReleaseDate, or "".
func (m Movie) ReleaseYear() string {
	return yearOf(m.ReleaseDate)
}

// Season is one season of a TV show.
type Season struct {
	ID           int    `json:"id"`
	AirDate      string `json:"airDate,omitempty"`
	EpisodeCount int    `json:"episodeCount"`
	Name         string `json:"name"`
	Overview     string `json:"overview,omitempty"`
	PosterPath   string `json:"posterPath,omitempty"`
	SeasonNumber int    `json:"seasonNumber"`
}

// Creator is a TV show creator.
type Creator struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	ProfilePath string `json:"profilePath,omitempty"`
}

// TVShow mirrors TV detail results.
type TVShow struct {
	ID                  int                 `json:"id"`
	BackdropPath        string              `json:"backdropPath,omitempty"`
	PosterPath          string              `json:"posterPath,omitempty"`
	CreatedBy           []Creator           `json:"createdBy,omitempty"`
	EpisodeRunTime      []int               `json:"episodeRunTime,omitempty"`
	FirstAirDate        string              `json:"firstAirDate,omitempty"`
	Genres              []Genre             `json:"genres,omitempty"`
	Homepage            string              `json:"homepage,omitempty"`
	InProduction        bool                `json:"inProduction"`
	Languages           []string            `json:"languages,omitempty"`
	LastAirDate         string              `json:"lastAirDate,omitempty"`
	Name                string              `json:"name"`
	Networks            []ProductionCompany `json:"networks,omitempty"`
	NumberOfEpisodes    int                 `json:"numberOfEpisodes"`
	NumberOfSeasons     int                 `json:"numberOfSeasons"`
	OriginCountry       []string            `json:"originCountry,omitempty"`
	OriginalLanguage    string              `json:"originalLanguage"`
	OriginalName        string              `json:"originalName"`
	Overview            string              `json:"overview,omitempty"`
	Popularity          float64             `json:"popularity"`
	ProductionCompanies []ProductionCompany `json:"productionCompanies,omitempty"`
	Seasons             []Season            `json:"seasons,omitempty"`
	Status              string              `json:"status,omitempty"`
	Type                string              `json:"type,omitempty"`
	VoteAverage         float64             `json:"voteAverage"`
	VoteCount           int                 `json:"voteCount"`
	Credits             *Credits            `json:"credits,omitempty"`
	MediaInfo           *Media              `json:"mediaInfo,omitempty"`
}

// ReleaseYear returns the year the show first aired, or "".
func (t TVShow) ReleaseYear() string {
	return yearOf(t.FirstAirDate)
}

// RequestSeason is the per-season state of a TV request.
type RequestSeason struct {
	ID           int           `json:"id"`
	SeasonNumber int           `json:"seasonNumber"`
	Status       RequestStatus `json:"status"`
}

// MediaRequest is a user's request for a title.
type MediaRequest struct {
	ID                int             `json:"id"`
	Status            RequestStatus   `json:"status"`
	CreatedAt         string          `json:"createdAt"`
	UpdatedAt         string          `json:"updatedAt,omitempty"`
	Type              MediaType       `json:"type"`
	Is4k              bool            `json:"is4k"`
	ServerID          int             `json:"serverId,omitempty"`
	ProfileID         int             `json:"profileId,omitempty"`
	RootFolder        string          `json:"rootFolder,omitempty"`
	LanguageProfileID int             `json:"languageProfileId,omitempty"`
	Tags              []int           `json:"tags,omitempty"`
	Seasons           []RequestSeason `json:"seasons,omitempty"`
	Media             *Media          `json:"media,omitempty"`
	RequestedBy       *User           `json:"requestedBy,omitempty"`
	ModifiedBy        *User           `json:"modifiedBy,omitempty"`
	Movie             *Movie          `json:"movie,omitempty"`
	TV                *TVShow         `json:"tv,omitempty"`
}

// Title returns the best available display title for the request.
func (r MediaRequest) Title() string {
	switch {
	case r.Movie != nil && r.Movie.Title != "":
		return r.Movie.Title
	case r.TV != nil && r.TV.Name != "":
		return r.TV.Name
	case r.Media != nil && r.Media.TmdbID > 0:
		return "TMDB #" + strconv.Itoa(r.Media.TmdbID)
	default:
		return "Request #" + strconv.Itoa(r.ID)
	}
}

// IssueComment is one message in an issue thread.
type IssueComment struct {
	ID        int    `json:"id"`
	User      User   `json:"user"`
	Message   string `json:"message"`
	CreatedAt string `json:"createdAt"`
}

// Issue is a reported problem with a title.
type Issue struct {
	ID         int            `json:"id"`
	IssueType  IssueType      `json:"issueType"`
	Media      Media          `json:"media"`
	CreatedBy  User           `json:"createdBy"`
	ModifiedBy *User          `json:"modifiedBy,omitempty"`
	Comments   []IssueComment `json:"comments,omitempty"`
	Status     IssueStatus    `json:"status"`
}

// PageInfo describes the position of a page in a paged list.
type PageInfo struct {
	Pages    int `json:"pages"`
	PageSize int `json:"pageSize"`
	Results  int `json:"results"`
	Page     int `json:"page"`
}

// ListResponse is the envelope every list endpoint returns.
type ListResponse[T any] struct {
	PageInfo *PageInfo `json:"pageInfo,omitempty"`
	Results  []T       `json:"results"`
}

func yearOf(date string) string {
	if len(date) < 4 {
		return ""
	}
	return date[:4]
}
