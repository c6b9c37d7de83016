package model

import "time"

type Macros struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

type WaterEntry struct {
	ID        string `json:"id"`
	AmountMl  int    `json:"amountMl"`
	Timestamp int64  `json:"timestamp"`
}

type FoodEntry struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Portion   string  `json:"portion"`
	Macros    Macros  `json:"macros"`
	ImageRef  *string `json:"imageRef"`
	Timestamp int64   `json:"timestamp"`
}

type ActivityEntry struct {
	ID              string `json:"id"`
	ActivityName    string `json:"activityName"`
	DurationMinutes int    `json:"durationMinutes"`
	CaloriesBurned  int    `json:"caloriesBurned"`
	Timestamp       int64  `json:"timestamp"`
}

type FastingStatus string

const (
	FastingActive    FastingStatus = "active"
	FastingCompleted FastingStatus = "completed"
)

// FastingSession has no separate creation timestamp; StartTime serves as one.
type FastingSession struct {
	ID        string        `json:"id"`
	StartTime int64         `json:"startTime"`
	EndTime   *int64        `json:"endTime"`
	GoalHours float64       `json:"goalHours"`
	Status    FastingStatus `json:"status"`
}

type SleepQuality string

const (
	SleepBad       SleepQuality = "bad"
	SleepAverage   SleepQuality = "average"
	SleepGood      SleepQuality = "good"
	SleepExcellent SleepQuality = "excellent"
)

// SleepEntry keeps bedtime and wake time as wall-clock HH:MM strings.
// Timestamp is when the entry was logged.
type SleepEntry struct {
	ID              string       `json:"id"`
	StartTime       string       `json:"startTime"`
	EndTime         string       `json:"endTime"`
	DurationMinutes int          `json:"durationMinutes"`
	Quality         SleepQuality `json:"quality"`
	Timestamp       int64        `json:"timestamp"`
}

type WeightEntry struct {
	ID        string  `json:"id"`
	WeightKg  float64 `json:"weightKg"`
	Timestamp int64   `json:"timestamp"`
}

type UserGoals struct {
	Calories        float64 `json:"calories"`
	Protein         float64 `json:"protein"`
	Carbs           float64 `json:"carbs"`
	Fat             float64 `json:"fat"`
	WaterMl         float64 `json:"waterMl"`
	ActivityMinutes float64 `json:"activityMinutes"`
	FastingHours    float64 `json:"fastingHours"`
	Weight          float64 `json:"weight"`
	SleepHours      float64 `json:"sleepHours"`
}

func DefaultGoals() UserGoals {
	return UserGoals{
		Calories:        2000,
		Protein:         150,
		Carbs:           250,
		Fat:             70,
		WaterMl:         2500,
		ActivityMinutes: 30,
		FastingHours:    16,
		Weight:          70,
		SleepHours:      8,
	}
}

type UserProfile struct {
	Age      *int     `json:"age"`
	WeightKg *float64 `json:"weightKg"`
	HeightCm *float64 `json:"heightCm"`
	Gender   *string  `json:"gender"`
}

// Streams is a read-only view over the six log collections.
type Streams struct {
	Water    []WaterEntry     `json:"water"`
	Food     []FoodEntry      `json:"food"`
	Activity []ActivityEntry  `json:"activity"`
	Fasting  []FastingSession `json:"fasting"`
	Sleep    []SleepEntry     `json:"sleep"`
	Weight   []WeightEntry    `json:"weight"`
}

// Snapshot is everything the rule engine and aggregations may read.
type Snapshot struct {
	Streams
	FirstActivity *int64
	Location      *time.Location
}

func Millis(t time.Time) int64 {
	return t.UnixMilli()
}

func TimeOf(ms int64, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return time.UnixMilli(ms).In(loc)
}
