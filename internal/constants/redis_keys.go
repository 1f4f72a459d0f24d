package constants

// Redis Key 前缀和格式常量
// 使用统一的命名规范: app:{module}:{entity}:{unique_id}
const (
	// AppPrefix 是所有Redis Key的统一应用前缀
	AppPrefix = "app"

	// MatchModulePrefix 匹配模块
	MatchModulePrefix = "match"
	// JobModulePrefix 岗位模块
	JobModulePrefix = "job"
	// UserModulePrefix 用户模块
	UserModulePrefix = "user"

	// EntityScore 匹配分数实体
	EntityScore = "score"
	// EntityFeed 岗位列表实体
	EntityFeed = "feed"
	// EntityResume 简历文本实体
	EntityResume = "resume"
	// EntityApplications 投递记录实体
	EntityApplications = "applications"

	// KeyMatchScore 匹配分数缓存 (STRING, JSON)
	// 格式: app:match:score:{resumeFingerprint}:{jobID}
	KeyMatchScore = AppPrefix + ":" + MatchModulePrefix + ":" + EntityScore + ":%s:%s"

	// KeyJobFeed 岗位列表缓存 (STRING, JSON)
	// 格式: app:job:feed:{filtersDigest}
	KeyJobFeed = AppPrefix + ":" + JobModulePrefix + ":" + EntityFeed + ":%s"

	// KeyUserResume 用户简历文本 (STRING)
	// 格式: app:user:resume:{userID}
	KeyUserResume = AppPrefix + ":" + UserModulePrefix + ":" + EntityResume + ":%s"

	// KeyUserApplications 用户投递记录 (HASH, field=applicationID, value=JSON)
	// 格式: app:user:applications:{userID}
	KeyUserApplications = AppPrefix + ":" + UserModulePrefix + ":" + EntityApplications + ":%s"
)
