package engine

import "time"

const StateVersion = 4

type Settings struct {
	DailyGoal            int  `json:"dailyGoal"`
	PointsPerCoin        int  `json:"pointsPerCoin"`
	Haptics              bool `json:"haptics"`
	DailyChallengesCount int  `json:"dailyChallengesCount"`
	BossTasksPerWeek     int  `json:"bossTasksPerWeek"`
	BossTimesMin         int  `json:"bossTimesMin"`
	BossTimesMax         int  `json:"bossTimesMax"`
}

type Profile struct {
	Coins      int `json:"coins"`
	BestStreak int `json:"bestStreak"`
}

type Streak struct {
	Current int `json:"current"`
}

// HabitStatus is today's working state for one habit.
type HabitStatus struct {
	Tally int  `json:"tally"`
	Done  bool `json:"done"`
}

// TodayBucket is the transient per-day working state. It is reset in full
// at every day rollover; history survives only in Progress.
type TodayBucket struct {
	Day               DayKey                 `json:"day"`
	Points            int                    `json:"points"`
	UnconvertedPoints int                    `json:"unconvertedPoints"`
	LastMilestone     int                    `json:"lastMilestone"`
	HabitsStatus      map[string]HabitStatus `json:"habitsStatus"`
}

type HabitKind string

const (
	HabitBinary  HabitKind = "binary"
	HabitCounter HabitKind = "counter"
)

func (k HabitKind) IsValid() bool {
	switch k {
	case HabitBinary, HabitCounter:
		return true
	default:
		return false
	}
}

type Habit struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Kind             HabitKind `json:"kind"`
	TargetPerDay     int       `json:"targetPerDay,omitempty"`
	PointsOnComplete int       `json:"pointsOnComplete"`
	Active           bool      `json:"active"`
}

type Freq string

const (
	FreqDaily  Freq = "daily"
	FreqWeekly Freq = "weekly"
	FreqCustom Freq = "custom"
)

func (f Freq) IsValid() bool {
	switch f {
	case FreqDaily, FreqWeekly, FreqCustom:
		return true
	default:
		return false
	}
}

// Recurrence describes when a rule spawns todo instances.
// Weekly rules fire on the weekdays in ByWeekday (0=Sunday..6); an empty
// set means every weekday. Custom rules fire every Interval days counted
// from the rule's anchor day.
type Recurrence struct {
	Freq      Freq  `json:"freq"`
	Interval  int   `json:"interval,omitempty"`
	ByWeekday []int `json:"byWeekday,omitempty"`
}

type TodoRule struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Points     int        `json:"points"`
	Recurrence Recurrence `json:"recurrence"`
	AnchorDay  DayKey     `json:"anchorDay"`
}

// Todo is a concrete dated one-shot obligation, either user-created or
// materialized from a rule. Name and points are frozen at creation.
type Todo struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	DueDay DayKey `json:"dueDay"`
	Points int    `json:"points"`
	Done   bool   `json:"done"`
	RuleID string `json:"ruleId,omitempty"`
}

type LibraryItem struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Points        int        `json:"points"`
	CooldownHours *int       `json:"cooldownHours,omitempty"`
	LastDoneAt    *time.Time `json:"lastDoneAt,omitempty"`
	Active        bool       `json:"active"`
}

type Challenge struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Points int    `json:"points"`
	Active bool   `json:"active"`
}

type ShopKind string

const (
	ShopGeneric      ShopKind = ""
	ShopPowerHour    ShopKind = "powerHour"
	ShopStreakRepair ShopKind = "streakRepair"
)

type ShopItem struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Cost   int      `json:"cost"`
	Kind   ShopKind `json:"kind,omitempty"`
	Active bool     `json:"active"`
}

// PowerHour is a wall-clock bonus window checked lazily at grant time.
type PowerHour struct {
	Active bool       `json:"active"`
	EndsAt *time.Time `json:"endsAt,omitempty"`
}

// ProgressBucket is the per-day aggregate snapshot. Buckets for past days
// are read-only history; only today's bucket accumulates.
type ProgressBucket struct {
	Points         int `json:"points"`
	CoinsEarned    int `json:"coinsEarned"`
	TasksDone      int `json:"tasksDone"`
	HabitsDone     int `json:"habitsDone"`
	ChallengesDone int `json:"challengesDone"`
	MissedTodos    int `json:"missedTodos,omitempty"`
}

type LogKind string

const (
	LogTodo      LogKind = "todo"
	LogHabit     LogKind = "habit"
	LogChallenge LogKind = "challenge"
	LogLibrary   LogKind = "library"
	LogBoss      LogKind = "boss"
	LogPurchase  LogKind = "purchase"
)

// LogEntry is an append-only (individually reversible) record of a grant
// or purchase. The log answers "was X done today" and backs Undo.
type LogEntry struct {
	TS     time.Time `json:"ts"`
	Kind   LogKind   `json:"kind"`
	RefID  string    `json:"refId"`
	Name   string    `json:"name"`
	Points int       `json:"points,omitempty"`
	Cost   int       `json:"cost,omitempty"`
	Day    DayKey    `json:"day"`
}

// BossGoal is a week-scoped repetition quota tied to one library item.
type BossGoal struct {
	ID            string   `json:"id"`
	Label         string   `json:"label"`
	Target        int      `json:"target"`
	Tally         int      `json:"tally"`
	LinkedTaskIDs []string `json:"linkedTaskIds"`
}

type WeeklyBoss struct {
	WeekStartDay DayKey     `json:"weekStartDay"`
	Goals        []BossGoal `json:"goals"`
	Completed    bool       `json:"completed"`
}

// State is the whole persisted tree. It has exactly one mutator, the
// owning Service; everything else reads it.
type State struct {
	Version    int                        `json:"version"`
	Settings   Settings                   `json:"settings"`
	Profile    Profile                    `json:"profile"`
	Streak     Streak                     `json:"streak"`
	Today      TodayBucket                `json:"today"`
	Habits     []Habit                    `json:"habits"`
	Todos      []Todo                     `json:"todos"`
	TodoRules  []TodoRule                 `json:"todoRules"`
	Library    []LibraryItem              `json:"library"`
	Challenges []Challenge                `json:"challenges"`
	Assigned   map[DayKey][]string        `json:"assigned"`
	Shop       []ShopItem                 `json:"shop"`
	PowerHour  PowerHour                  `json:"powerHour"`
	Progress   map[DayKey]*ProgressBucket `json:"progress"`
	Logs       []LogEntry                 `json:"logs"`
	WeeklyBoss WeeklyBoss                 `json:"weeklyBoss"`
}

func DefaultState() *State {
	return &State{
		Version: StateVersion,
		Settings: Settings{
			DailyGoal:            60,
			PointsPerCoin:        100,
			Haptics:              true,
			DailyChallengesCount: 3,
			BossTasksPerWeek:     3,
			BossTimesMin:         2,
			BossTimesMax:         5,
		},
		Today:    TodayBucket{HabitsStatus: map[string]HabitStatus{}},
		Assigned: map[DayKey][]string{},
		Progress: map[DayKey]*ProgressBucket{},
	}
}

// Normalize repairs the shape of a freshly loaded or imported state:
// missing maps, zero settings and invalid enum values fall back to
// defaults. It never drops user entities.
func (st *State) Normalize() {
	def := DefaultState()

	if st.Settings.DailyGoal <= 0 {
		st.Settings.DailyGoal = def.Settings.DailyGoal
	}
	if st.Settings.PointsPerCoin <= 0 {
		st.Settings.PointsPerCoin = def.Settings.PointsPerCoin
	}
	if st.Settings.DailyChallengesCount <= 0 {
		st.Settings.DailyChallengesCount = def.Settings.DailyChallengesCount
	}
	if st.Settings.BossTasksPerWeek <= 0 {
		st.Settings.BossTasksPerWeek = def.Settings.BossTasksPerWeek
	}
	if st.Settings.BossTimesMin <= 0 {
		st.Settings.BossTimesMin = def.Settings.BossTimesMin
	}
	if st.Settings.BossTimesMax < st.Settings.BossTimesMin {
		st.Settings.BossTimesMax = st.Settings.BossTimesMin
	}

	if st.Today.HabitsStatus == nil {
		st.Today.HabitsStatus = map[string]HabitStatus{}
	}
	if st.Today.Day != "" && !st.Today.Day.IsValid() {
		st.Today = TodayBucket{HabitsStatus: map[string]HabitStatus{}}
	}
	if st.Assigned == nil {
		st.Assigned = map[DayKey][]string{}
	}
	if st.Progress == nil {
		st.Progress = map[DayKey]*ProgressBucket{}
	}
	for day, b := range st.Progress {
		if b == nil {
			st.Progress[day] = &ProgressBucket{}
		}
	}

	for i := range st.Habits {
		if !st.Habits[i].Kind.IsValid() {
			st.Habits[i].Kind = HabitBinary
		}
		if st.Habits[i].Kind == HabitCounter && st.Habits[i].TargetPerDay < 1 {
			st.Habits[i].TargetPerDay = 1
		}
	}
	for i := range st.TodoRules {
		if !st.TodoRules[i].Recurrence.Freq.IsValid() {
			st.TodoRules[i].Recurrence.Freq = FreqWeekly
		}
		if st.TodoRules[i].Recurrence.Freq == FreqCustom && st.TodoRules[i].Recurrence.Interval < 1 {
			st.TodoRules[i].Recurrence.Interval = 1
		}
	}

	if st.PowerHour.Active && st.PowerHour.EndsAt == nil {
		st.PowerHour = PowerHour{}
	}
	if st.Profile.Coins < 0 {
		st.Profile.Coins = 0
	}
	if st.Streak.Current < 0 {
		st.Streak.Current = 0
	}
	if st.Profile.BestStreak < st.Streak.Current {
		st.Profile.BestStreak = st.Streak.Current
	}

	st.Version = StateVersion
}

// HabitByID returns the habit or nil.
func (st *State) HabitByID(id string) *Habit {
	for i := range st.Habits {
		if st.Habits[i].ID == id {
			return &st.Habits[i]
		}
	}
	return nil
}

func (st *State) TodoByID(id string) *Todo {
	for i := range st.Todos {
		if st.Todos[i].ID == id {
			return &st.Todos[i]
		}
	}
	return nil
}

func (st *State) ChallengeByID(id string) *Challenge {
	for i := range st.Challenges {
		if st.Challenges[i].ID == id {
			return &st.Challenges[i]
		}
	}
	return nil
}

func (st *State) LibraryItemByID(id string) *LibraryItem {
	for i := range st.Library {
		if st.Library[i].ID == id {
			return &st.Library[i]
		}
	}
	return nil
}

func (st *State) ShopItemByID(id string) *ShopItem {
	for i := range st.Shop {
		if st.Shop[i].ID == id {
			return &st.Shop[i]
		}
	}
	return nil
}

// ActiveHabits returns habits not soft-deleted.
func (st *State) ActiveHabits() []Habit {
	var out []Habit
	for _, h := range st.Habits {
		if h.Active {
			out = append(out, h)
		}
	}
	return out
}

func (st *State) ActiveChallenges() []Challenge {
	var out []Challenge
	for _, c := range st.Challenges {
		if c.Active {
			out = append(out, c)
		}
	}
	return out
}

func (st *State) ActiveLibrary() []LibraryItem {
	var out []LibraryItem
	for _, it := range st.Library {
		if it.Active {
			out = append(out, it)
		}
	}
	return out
}
