package tiktok

// EntityCounters 一次抓取得到的实体当前计数
type EntityCounters struct {
	DisplayName    string `json:"displayName"`
	PrimaryVolume  int64  `json:"primaryVolume"`  // 浏览/播放/粉丝，取决于实体类型
	SecondaryCount int    `json:"secondaryCount"` // 视频数
	LikeCount      int64  `json:"likeCount"`
	ShareCount     int64  `json:"shareCount"`
	CommentCount   int64  `json:"commentCount"`
}

// FeedVideo 热门视频流中的一条视频
type FeedVideo struct {
	ID        string      `json:"id"`
	Title     string      `json:"title"`
	PlayCount int64       `json:"playCount"`
	TextExtra []TextExtra `json:"textExtra"`
	Music     *FeedMusic  `json:"music"`
	Author    *FeedAuthor `json:"author"`
}

type TextExtra struct {
	HashtagName string `json:"hashtagName"`
}

type FeedMusic struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	AuthorName string `json:"authorName"`
	PlayCount  int64  `json:"playCount"`
}

type FeedAuthor struct {
	UniqueID      string `json:"uniqueId"`
	Nickname      string `json:"nickname"`
	FollowerCount int64  `json:"followerCount"`
	VideoCount    int    `json:"videoCount"`
}

// apiEnvelope 上游统一响应包裹
type apiEnvelope[T any] struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data T      `json:"data"`
}

type challengeInfo struct {
	Title string `json:"title"`
	Stats struct {
		ViewCount  int64 `json:"viewCount"`
		VideoCount int   `json:"videoCount"`
	} `json:"stats"`
}

type musicInfo struct {
	Title      string `json:"title"`
	AuthorName string `json:"authorName"`
	Stats      struct {
		PlayCount  int64 `json:"playCount"`
		VideoCount int   `json:"videoCount"`
	} `json:"stats"`
}

type userInfo struct {
	Nickname string `json:"nickname"`
	Stats    struct {
		FollowerCount int64 `json:"followerCount"`
		VideoCount    int   `json:"videoCount"`
		HeartCount    int64 `json:"heartCount"`
	} `json:"stats"`
}

type feedData struct {
	Videos []FeedVideo `json:"videos"`
}
