package model

// 所有分析结果的叶子值都是原生 float64/int/string 或 nil，
// 保证下游 JSON 序列化不需要任何再包装。

// KnowledgeMastery 是某个知识点的聚合指标。
type KnowledgeMastery struct {
	// 得分占比口径的正确率（薄弱点判定使用它）
	CorrectRate float64 `json:"correct_rate"`
	// 完全正确提交占比
	CorrectSubmissionRate float64 `json:"correct_submission_rate"`
	// 掌握度均值，口径由 analysis.mastery_source 决定
	MeanMastery float64 `json:"mean_mastery"`
	// 哨兵值剔除后的平均耗时；全部缺失时为 null
	AvgTimeConsume *float64 `json:"avg_time_consume"`
	// 仅统计 memory>0 的行；全部缺失时为 null
	AvgMemory         *float64                        `json:"avg_memory"`
	TotalSubmissions  int                             `json:"total_submissions"`
	CorrectSubmission int                             `json:"correct_submissions"`
	TotalScore        float64                         `json:"total_score"`
	EarnedScore       float64                         `json:"earned_score"`
	SubKnowledge      map[string]*SubKnowledgeMastery `json:"sub_knowledge"`
}

// SubKnowledgeMastery 是从属知识点的聚合指标，嵌套在所属知识点下。
type SubKnowledgeMastery struct {
	CorrectRate           float64  `json:"correct_rate"`
	CorrectSubmissionRate float64  `json:"correct_submission_rate"`
	MeanMastery           float64  `json:"mean_mastery"`
	AvgTimeConsume        *float64 `json:"avg_time_consume"`
	AvgMemory             *float64 `json:"avg_memory"`
	TotalSubmissions      int      `json:"total_submissions"`
	CorrectSubmission     int      `json:"correct_submissions"`
	TotalScore            float64  `json:"total_score"`
	EarnedScore           float64  `json:"earned_score"`
	// 按题目数占比的聚合权重，同一知识点下的权重和为 1
	Weight float64 `json:"weight"`
}

// WeakPoint 标记低于阈值的知识点或从属知识点。
type WeakPoint struct {
	Knowledge    string  `json:"knowledge"`
	SubKnowledge string  `json:"sub_knowledge,omitempty"`
	CorrectRate  float64 `json:"correct_rate"`
	Reason       string  `json:"reason"`
}

// KnowledgeMasteryResult 是知识点掌握度分析的完整输出。
type KnowledgeMasteryResult struct {
	StudentID        string                       `json:"student_id,omitempty"`
	KnowledgeMastery map[string]*KnowledgeMastery `json:"knowledge_mastery"`
	WeakPoints       []WeakPoint                  `json:"weak_points"`
}

// HourCount 是按小时的提交量。
type HourCount struct {
	Hour  int `json:"hour"`
	Count int `json:"count"`
}

// WeekdayCount 按星期统计提交量，0 = 周一。
type WeekdayCount struct {
	Weekday int `json:"weekday"`
	Count   int `json:"count"`
}

// RelativePerformance 是单个学生相对全体的带符号差值。
type RelativePerformance struct {
	CorrectRateVsAvg float64  `json:"correct_rate_vs_avg"`
	MasteryVsAvg     float64  `json:"mastery_vs_avg"`
	TimeConsumeVsAvg *float64 `json:"time_consume_vs_avg"`
}

// BehaviorProfile 是学习行为画像。
type BehaviorProfile struct {
	// 固定 24 个桶，无提交的小时计 0
	HourlyActivity []HourCount `json:"hourly_activity"`
	// 提交量最高的至多 3 个时段
	PeakHours           []HourCount          `json:"peak_hours"`
	WeekdayActivity     []WeekdayCount       `json:"weekday_activity"`
	StateDistribution   map[string]int       `json:"state_distribution"`
	MethodDistribution  map[string]int       `json:"method_distribution"`
	CorrectRate         float64              `json:"correct_rate"`
	MeanMastery         float64              `json:"mean_mastery"`
	AvgTimeConsume      *float64             `json:"avg_time_consume"`
	AvgMemory           *float64             `json:"avg_memory"`
	TotalSubmissions    int                  `json:"total_submissions"`
	RelativePerformance *RelativePerformance `json:"relative_performance,omitempty"`
	StudentInfo         *Student             `json:"student_info,omitempty"`
}

// BehaviorResult 是行为分析的完整输出。
type BehaviorResult struct {
	StudentID       string           `json:"student_id,omitempty"`
	BehaviorProfile *BehaviorProfile `json:"behavior_profile"`
}

// QuestionDifficulty 是单题的观测指标。
type QuestionDifficulty struct {
	TitleID string `json:"title_id"`
	// 完全正确提交 / 总提交
	CorrectRate       float64  `json:"correct_rate"`
	AvgTimeConsume    *float64 `json:"avg_time_consume"`
	AvgMemory         *float64 `json:"avg_memory"`
	TotalSubmissions  int      `json:"total_submissions"`
	CorrectSubmission int      `json:"correct_submissions"`
	StudentCount      int      `json:"student_count"`
	Knowledge         string   `json:"knowledge"`
	SubKnowledge      string   `json:"sub_knowledge"`
	MaxScore          float64  `json:"max_score"`
}

// UnreasonableQuestion 标记“群体掌握度高但正确率异常低”的题目。
type UnreasonableQuestion struct {
	TitleID      string  `json:"title_id"`
	CorrectRate  float64 `json:"correct_rate"`
	AvgMastery   float64 `json:"avg_mastery"`
	Knowledge    string  `json:"knowledge"`
	SubKnowledge string  `json:"sub_knowledge"`
	MaxScore     float64 `json:"max_score"`
	Reason       string  `json:"reason"`
}

// DifficultyResult 是题目难度分析的完整输出。
type DifficultyResult struct {
	QuestionDifficulty    map[string]*QuestionDifficulty `json:"question_difficulty"`
	UnreasonableQuestions []UnreasonableQuestion         `json:"unreasonable_questions"`
}

// PracticeCurve 是某个分组键的第 x 次练习基线：三条对齐的曲线，
// 长度等于该组内最长的个人练习序列。某个学生没有第 i 次练习时，
// 该位置的平均不包含他，而不是按 0 计入。
type PracticeCurve struct {
	AvgMasteryCurve []float64  `json:"avg_curve"`
	AvgTimeCurve    []*float64 `json:"avg_time_curve"`
	AvgMemoryCurve  []*float64 `json:"avg_memory_curve"`
}

// CurveResult 是练习曲线分析的完整输出。
type CurveResult struct {
	StudentID string                    `json:"student_id,omitempty"`
	GroupBy   Dimension                 `json:"group_by"`
	Curves    map[string]*PracticeCurve `json:"curves"`
}

// 趋势点的水平标签与趋势标签。
const (
	StatusExcellent = "优秀"
	StatusGood      = "良好"
	StatusFair      = "一般"
	StatusPoor      = "差"

	TrendProgress = "进步"
	TrendDecline  = "退步"
)

// TrendPoint 是时间窗口内的一条趋势记录，窗口内无提交的组不会出现合成零点。
type TrendPoint struct {
	Time           string   `json:"time"`
	Score          float64  `json:"score"`
	LearningStatus string   `json:"learning_status"`
	LearningTrend  string   `json:"learning_trend,omitempty"`
	// 完全正确提交 / 窗口内总提交
	CorrectRate    float64  `json:"correct_rate"`
	AvgTimeConsume *float64 `json:"avg_time_consume"`
	AvgMemory      *float64 `json:"avg_memory"`
	Submissions    int      `json:"submissions"`
}

// TrendResult 是掌握度趋势分析的完整输出，每个分组键一条按时间升序的时间线。
type TrendResult struct {
	StudentID   string                  `json:"student_id,omitempty"`
	Granularity Granularity             `json:"granularity"`
	GroupBy     Dimension               `json:"group_by"`
	Trend       map[string][]TrendPoint `json:"trend"`
}
