package latex

import (
	"strings"

	"resume-api/internal/domain"
)

// Meta is the document metadata written into the preamble.
type Meta struct {
	Name        string
	LastUpdated string
}

const packages = `\usepackage{titlesec} % for customizing section titles
\usepackage{tabularx} % for making tables with fixed width columns
\usepackage{array} % tabularx requires this
\usepackage[dvipsnames]{xcolor} % for coloring text
\definecolor{primaryColor}{RGB}{0, 0, 0} % define primary color
\usepackage{enumitem} % for customizing lists
\usepackage{fontawesome5} % for using icons
\usepackage{amsmath} % for math`

const support = `\usepackage[pscoord]{eso-pic} % for floating text on the page
\usepackage{calc} % for calculating lengths
\usepackage{bookmark} % for bookmarks
\usepackage{lastpage} % for getting the total number of pages
\usepackage{changepage} % for one column entries (adjustwidth environment)
\usepackage{paracol} % for two and three column entries
\usepackage{ifthen} % for conditional statements
\usepackage{needspace} % for avoiding page brake right after the section title
\usepackage{iftex} % check if engine is pdflatex, xetex or luatex

% Ensure that generate pdf is machine readable/ATS parsable:
\ifPDFTeX
    \input{glyphtounicode}
    \pdfgentounicode=1
    \usepackage[T1]{fontenc}
    \usepackage[utf8]{inputenc}
    \usepackage{lmodern}
\fi

\usepackage{charter}

% Some settings:
\raggedright
\AtBeginEnvironment{adjustwidth}{\partopsep0pt} % remove space before adjustwidth environment
\pagestyle{empty} % no header or footer
\setcounter{secnumdepth}{0} % no section numbering
\setlength{\parindent}{0pt} % no indentation
\setlength{\topskip}{0pt} % no top skip
\setlength{\columnsep}{0.15cm} % set column seperation
\pagenumbering{gobble} % no page numbering
`

const environments = `\newenvironment{onecolentry}{
    \begin{adjustwidth}{
        0 cm + 0.00001 cm
    }{
        0 cm + 0.00001 cm
    }
}{
    \end{adjustwidth}
} % new environment for one column entries

\newenvironment{twocolentry}[2][]{
    \onecolentry
    \def\secondColumn{#2}
    \setcolumnwidth{\fill, 4.5 cm}
    \begin{paracol}{2}
}{
    \switchcolumn \raggedleft \secondColumn
    \end{paracol}
    \endonecolentry
} % new environment for two column entries

\newenvironment{threecolentry}[3][]{
    \onecolentry
    \def\secondColumn{#2}
    \def\thirdColumn{#3}
    \setcolumnwidth{\fill, 4.5 cm, 4.5 cm}
    \begin{paracol}{3}
}{
    \switchcolumn \raggedleft \secondColumn \switchcolumn \raggedleft \thirdColumn
    \end{paracol}
    \endonecolentry
} % new environment for three column entries

\newenvironment{header}{
    \setlength{\topsep}{0pt}\par\kern\topsep\centering\linespread{1.5}
}{
    \par\kern\topsep
} % new environment for the header
`

const links = `% save the original href command in a new command:
\let\hrefWithoutArrow\href

% new command for external links:

\usepackage{anyfontsize}   % allows arbitrary font sizes
`

const beginDocument = `\begin{document}
    \newcommand{\AND}{\unskip
        \cleaders\copy\ANDbox\hskip\wd\ANDbox
        \ignorespaces
    }
    \newsavebox\ANDbox
    \sbox\ANDbox{$|$}`

func block(s string) []string { return strings.Split(s, "\n") }

// Preamble returns everything up to and including \begin{document}.
func Preamble(meta Meta, l Layout) []string {
	title := meta.Name
	if title == "" {
		title = "Resume"
	}
	var b lines
	b.addf(`\documentclass[%dpt, letterpaper]{article}`, l.FontSize)
	b.blank()
	b.add("% Packages:", `\usepackage[`)
	b.add("    ignoreheadfoot, % set margins without considering header and footer")
	b.addf("    top=%s, %% seperation between body and page edge from the top", cm(l.Margins))
	b.addf("    bottom=%s, %% seperation between body and page edge from the bottom", cm(l.Margins*0.5))
	b.addf("    left=%s, %% seperation between body and page edge from the left", cm(l.Margins*0.5))
	b.addf("    right=%s, %% seperation between body and page edge from the right", cm(l.Margins*0.5))
	b.addf("    footskip=%s, %% seperation between body and footer", cm(l.Margins))
	b.add("    % showframe % for debugging", "]{geometry} % for adjusting page geometry")
	b.add(block(packages)...)
	b.add(`\usepackage[`)
	b.addf(`    pdftitle={%s's CV},`, Escape(title))
	b.addf(`    pdfauthor={%s},`, Escape(meta.Name))
	b.add(`    pdfcreator={LaTeX with RenderCV},`, `    colorlinks=true,`, `    urlcolor=primaryColor`)
	b.add(`]{hyperref} % for links, metadata and bookmarks`)
	b.add(block(support)...)
	b.addf(`\titleformat{\section}{\needspace{4\baselineskip}\bfseries%s}{}{0pt}{}[\vspace{1pt}\titlerule]`, l.SectionSize)
	b.blank()
	b.add(`\titlespacing{\section}{`, "    % left space:", "    -1pt", "}{", "    % top space:")
	b.add("    "+l.SectionTop, "}{", "    % bottom space:", "    "+l.SectionBottom, "} % section title spacing")
	b.blank()
	b.blank()
	b.add(`\renewcommand\labelitemi{$\vcenter{\hbox{\small$\bullet$}}$} % custom bullet points`)
	b.add(`\newenvironment{highlights}{`, `    \begin{itemize}[`)
	b.add("        topsep="+l.ItemSpacing+",", "        parsep="+l.ItemSpacing+",")
	b.add("        partopsep=0pt,", "        itemsep=0pt,", "        leftmargin=10pt", "    ]")
	b.add("}{", `    \end{itemize}`, "} % new environment for highlights for bullet entries")
	b.blank()
	b.add(block(environments)...)
	if meta.LastUpdated != "" {
		text := "Last updated in " + Escape(meta.LastUpdated)
		b.add(`\newcommand{\placelastupdatedtext}{% \placetextbox{<horizontal pos>}{<vertical pos>}{<stuff>}`)
		b.add(`  \AddToShipoutPictureFG*{% Add <stuff> to current page foreground`)
		b.add(`    \put(`, `        \LenToUnit{\paperwidth-2 cm-0 cm+0.05cm},`, `        \LenToUnit{\paperheight-1.0 cm}`)
		b.add(`    ){\vtop{{\null}\makebox[0pt][c]{`)
		b.addf(`        \small\color{gray}\textit{%s}\hspace{\widthof{%s}}`, text, text)
		b.add(`    }}}%`, `  }%`, `}%`)
		b.blank()
	}
	b.add(block(links)...)
	b.add(`\AtBeginDocument{%`)
	b.addf(`  \fontsize{%dpt}{%spt}\selectfont`, l.FontSize, num(float64(l.FontSize)*1.2))
	b.add("}")
	b.blank()
	b.add(block(beginDocument)...)
	return b.lines()
}

// Closing ends the document.
func Closing() []string {
	return []string{"", `\end{document}`}
}

// Assemble wraps the rendered sections, in the order given, with the preamble
// and closing. Empty sections contribute nothing.
func Assemble(meta Meta, settings domain.RenderSettings, sections ...[]string) string {
	l := NewLayout(settings)
	parts := make([][]string, 0, len(sections)+2)
	parts = append(parts, Preamble(meta, l))
	for _, s := range sections {
		if len(s) > 0 {
			parts = append(parts, s)
		}
	}
	parts = append(parts, Closing())
	return join(parts...)
}

// Render produces the complete document source for r: header, education,
// experience, projects, then skills.
func Render(r domain.ResumeRecord, settings domain.RenderSettings) string {
	l := NewLayout(settings)
	meta := Meta{Name: r.Header.Name, LastUpdated: r.Header.LastUpdated}
	return Assemble(meta, settings,
		HeaderSection(r.Header, l),
		EducationSection(r.Education, l),
		ExperienceSection(r.Experience, l),
		ProjectsSection(r.Projects, l),
		SkillsSection(r.Header.Skills, l),
	)
}
