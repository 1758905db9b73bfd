package main

import "github.com/charmbracelet/lipgloss"

var (
	styleTitle    = lipgloss.NewStyle().Foreground(lipgloss.Color("63")).Bold(true)
	styleLabel    = lipgloss.NewStyle().Foreground(lipgloss.Color("45"))
	styleCursor   = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	styleButton   = lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57")).Padding(0, 1)
	styleDisabled = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Background(lipgloss.Color("236")).Padding(0, 1)
	styleError    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	styleStory    = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	styleHelp     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)
