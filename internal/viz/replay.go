package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/odekit/internal/dynamo"
)

const (
	tickInterval = 50 * time.Millisecond
	maxSpeed     = 64
)

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Replay plays back a stored trajectory sample by sample.
type Replay struct {
	title   string
	tr      *dynamo.Trajectory
	series  []float64
	index   int
	playing bool
	speed   int
	width   int
}

func NewReplay(title string, tr *dynamo.Trajectory) Replay {
	return Replay{
		title:   title,
		tr:      tr,
		series:  tr.Component(0),
		playing: true,
		speed:   1,
		width:   80,
	}
}

func (m Replay) Index() int             { return m.index }
func (m Replay) Playing() bool          { return m.playing }
func (m Replay) Speed() int             { return m.speed }
func (m Replay) Current() dynamo.Sample { return m.tr.At(m.index) }

func (m Replay) Init() tea.Cmd { return tick() }

func (m Replay) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case tickMsg:
		if m.playing {
			m.seek(m.index + m.speed)
			if m.index == m.tr.Len()-1 {
				m.playing = false
			}
		}
		return m, tick()
	}
	return m, nil
}

func (m Replay) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case " ":
		if !m.playing && m.index == m.tr.Len()-1 {
			m.index = 0
		}
		m.playing = !m.playing
	case "right", "l":
		m.playing = false
		m.seek(m.index + 1)
	case "left", "h":
		m.playing = false
		m.seek(m.index - 1)
	case "g", "home":
		m.seek(0)
	case "G", "end":
		m.seek(m.tr.Len() - 1)
	case "+", "=":
		m.speed = min(m.speed*2, maxSpeed)
	case "-":
		m.speed = max(m.speed/2, 1)
	}
	return m, nil
}

func (m *Replay) seek(i int) {
	m.index = max(0, min(i, m.tr.Len()-1))
}

func (m Replay) View() string {
	s := m.tr.At(m.index)
	barWidth := max(m.width-20, 10)

	status := StatusOK.Render("▶ playing")
	if !m.playing {
		status = StatusPaused.Render("❚❚ paused")
	}

	var b strings.Builder
	b.WriteString(Title.Render(m.title))
	b.WriteString("  " + status + "  " + Subtle.Render(fmt.Sprintf("x%d", m.speed)))
	b.WriteString("\n\n")
	b.WriteString(ProgressBar(float64(m.index)/float64(max(m.tr.Len()-1, 1)), barWidth))
	b.WriteString(fmt.Sprintf(" %d/%d\n\n", m.index+1, m.tr.Len()))
	b.WriteString(MetricLabel.Render("t    "))
	b.WriteString(MetricValue.Render(fmt.Sprintf("%.6g", s.T)))
	b.WriteString("\n")
	for k, v := range s.X {
		b.WriteString(MetricLabel.Render(fmt.Sprintf("x%-4d", k)))
		b.WriteString(MetricValue.Render(fmt.Sprintf("%.6g", v)))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(Sparkline(m.series[:m.index+1], barWidth))
	b.WriteString("\n\n")
	b.WriteString(KeyHint.Render("space play/pause · ←/→ step · +/- speed · g/G start/end · q quit"))
	return Panel.Render(b.String())
}

// RunReplay runs the replay program until the user quits.
func RunReplay(title string, tr *dynamo.Trajectory) error {
	if tr.Len() == 0 {
		return fmt.Errorf("%w: empty trajectory", dynamo.ErrOutOfRange)
	}
	_, err := tea.NewProgram(NewReplay(title, tr), tea.WithAltScreen()).Run()
	return err
}
