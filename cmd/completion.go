package cmd

import (
	"fmt"
	"os"
)

// Completion outputs shell completion scripts
func Completion(shell string) {
	switch shell {
	case "bash":
		fmt.Print(bashCompletion)
	case "zsh":
		fmt.Print(zshCompletion)
	case "fish":
		fmt.Print(fishCompletion)
	default:
		fmt.Fprintf(os.Stderr, "Unknown shell: %s\nSupported: bash, zsh, fish\n", shell)
		os.Exit(1)
	}
}

const bashCompletion = `_dreamlock() {
    local cur prev words cword
    _init_completion || return

    local commands="init status add list show rm goal pin encrypt passwd recover wipe export import compact keyring help completion"

    if [[ $cword -eq 1 ]]; then
        COMPREPLY=($(compgen -W "$commands" -- "$cur"))
        return
    fi

    local cmd="${words[1]}"
    case "$cmd" in
        add)
            COMPREPLY=($(compgen -W "--title --tags --lucid" -- "$cur"))
            ;;
        list)
            COMPREPLY=($(compgen -W "--tag" -- "$cur"))
            ;;
        goal)
            COMPREPLY=($(compgen -W "add list done" -- "$cur"))
            ;;
        pin)
            COMPREPLY=($(compgen -W "set remove" -- "$cur"))
            ;;
        encrypt)
            COMPREPLY=($(compgen -W "on off" -- "$cur"))
            ;;
        recover)
            if [[ "$prev" == "timer" ]]; then
                COMPREPLY=($(compgen -W "start status cancel" -- "$cur"))
            else
                COMPREPLY=($(compgen -W "titles timer" -- "$cur"))
            fi
            ;;
        wipe)
            COMPREPLY=($(compgen -W "--yes" -- "$cur"))
            ;;
        export)
            if [[ "$cur" == -* ]]; then
                COMPREPLY=($(compgen -W "--force" -- "$cur"))
            else
                _filedir
            fi
            ;;
        import)
            if [[ "$prev" == "--strategy" ]]; then
                COMPREPLY=($(compgen -W "ask keep-local use-imported abort" -- "$cur"))
            elif [[ "$cur" == -* ]]; then
                COMPREPLY=($(compgen -W "--strategy --dry-run" -- "$cur"))
            else
                _filedir
            fi
            ;;
        keyring)
            COMPREPLY=($(compgen -W "status" -- "$cur"))
            ;;
        help)
            COMPREPLY=($(compgen -W "$commands" -- "$cur"))
            ;;
        completion)
            COMPREPLY=($(compgen -W "bash zsh fish" -- "$cur"))
            ;;
    esac
}

complete -F _dreamlock dreamlock
`

const zshCompletion = `#compdef dreamlock

_dreamlock() {
    local -a commands
    commands=(
        'init:Create a new journal'
        'status:Show journal and security status'
        'add:Record a dream'
        'list:List dreams'
        'show:Show one dream'
        'rm:Delete dreams'
        'goal:Manage dreaming goals'
        'pin:Set or remove the PIN'
        'encrypt:Turn encryption on or off'
        'passwd:Change the encryption password'
        'recover:Recover from a forgotten PIN'
        'wipe:Delete all journal data'
        'export:Write an encrypted backup'
        'import:Merge an encrypted backup'
        'compact:Compact the journal database'
        'keyring:Show OS keyring status'
        'help:Show help for a command'
        'completion:Generate shell completions'
    )

    _arguments -C \
        '1: :->command' \
        '*: :->args'

    case "$state" in
        command)
            _describe -t commands 'dreamlock commands' commands
            ;;
        args)
            case "${words[2]}" in
                add)
                    _arguments \
                        '--title[Dream title]:title' \
                        '--tags[Comma separated tags]:tags' \
                        '--lucid[Mark as lucid]'
                    ;;
                list)
                    _arguments '--tag[Only entries with this tag]:tag'
                    ;;
                goal)
                    _values 'subcommand' add list done
                    ;;
                pin)
                    _values 'subcommand' set remove
                    ;;
                encrypt)
                    _values 'mode' on off
                    ;;
                recover)
                    _values 'subcommand' titles timer
                    ;;
                wipe)
                    _arguments '--yes[Skip the first confirmation]'
                    ;;
                export)
                    _arguments '--force[Overwrite an existing file]' '*:file:_files'
                    ;;
                import)
                    _arguments \
                        '--strategy[Conflict strategy]:strategy:(ask keep-local use-imported abort)' \
                        '--dry-run[Report without writing]' \
                        '*:file:_files'
                    ;;
                keyring)
                    _values 'subcommand' status
                    ;;
                help)
                    _describe -t commands 'dreamlock commands' commands
                    ;;
                completion)
                    _values 'shell' bash zsh fish
                    ;;
            esac
            ;;
    esac
}

_dreamlock "$@"
`

const fishCompletion = `# dreamlock fish completions

set -l commands init status add list show rm goal pin encrypt passwd recover wipe export import compact keyring help completion

complete -c dreamlock -f

# Commands
complete -c dreamlock -n "not __fish_seen_subcommand_from $commands" -a init -d 'Create a new journal'
complete -c dreamlock -n "not __fish_seen_subcommand_from $commands" -a status -d 'Show journal status'
complete -c dreamlock -n "not __fish_seen_subcommand_from $commands" -a add -d 'Record a dream'
complete -c dreamlock -n "not __fish_seen_subcommand_from $commands" -a list -d 'List dreams'
complete -c dreamlock -n "not __fish_seen_subcommand_from $commands" -a show -d 'Show one dream'
complete -c dreamlock -n "not __fish_seen_subcommand_from $commands" -a rm -d 'Delete dreams'
complete -c dreamlock -n "not __fish_seen_subcommand_from $commands" -a goal -d 'Manage goals'
complete -c dreamlock -n "not __fish_seen_subcommand_from $commands" -a pin -d 'Set or remove the PIN'
complete -c dreamlock -n "not __fish_seen_subcommand_from $commands" -a encrypt -d 'Turn encryption on or off'
complete -c dreamlock -n "not __fish_seen_subcommand_from $commands" -a passwd -d 'Change encryption password'
complete -c dreamlock -n "not __fish_seen_subcommand_from $commands" -a recover -d 'Recover a forgotten PIN'
complete -c dreamlock -n "not __fish_seen_subcommand_from $commands" -a wipe -d 'Delete all journal data'
complete -c dreamlock -n "not __fish_seen_subcommand_from $commands" -a export -d 'Write an encrypted backup'
complete -c dreamlock -n "not __fish_seen_subcommand_from $commands" -a import -d 'Merge an encrypted backup'
complete -c dreamlock -n "not __fish_seen_subcommand_from $commands" -a compact -d 'Compact the database'
complete -c dreamlock -n "not __fish_seen_subcommand_from $commands" -a keyring -d 'Show keyring status'
complete -c dreamlock -n "not __fish_seen_subcommand_from $commands" -a help -d 'Show help'
complete -c dreamlock -n "not __fish_seen_subcommand_from $commands" -a completion -d 'Generate completions'

# Subcommands and flags
complete -c dreamlock -n "__fish_seen_subcommand_from add" -l title -d 'Dream title'
complete -c dreamlock -n "__fish_seen_subcommand_from add" -l tags -d 'Comma separated tags'
complete -c dreamlock -n "__fish_seen_subcommand_from add" -l lucid -d 'Mark as lucid'
complete -c dreamlock -n "__fish_seen_subcommand_from list" -l tag -d 'Only entries with this tag'
complete -c dreamlock -n "__fish_seen_subcommand_from goal" -a "add list done"
complete -c dreamlock -n "__fish_seen_subcommand_from pin" -a "set remove"
complete -c dreamlock -n "__fish_seen_subcommand_from encrypt" -a "on off"
complete -c dreamlock -n "__fish_seen_subcommand_from recover" -a "titles timer"
complete -c dreamlock -n "__fish_seen_subcommand_from timer" -a "start status cancel"
complete -c dreamlock -n "__fish_seen_subcommand_from wipe" -l yes -d 'Skip the first confirmation'
complete -c dreamlock -n "__fish_seen_subcommand_from export" -l force -d 'Overwrite an existing file'
complete -c dreamlock -n "__fish_seen_subcommand_from export" -F
complete -c dreamlock -n "__fish_seen_subcommand_from import" -l strategy -xa "ask keep-local use-imported abort"
complete -c dreamlock -n "__fish_seen_subcommand_from import" -l dry-run -d 'Report without writing'
complete -c dreamlock -n "__fish_seen_subcommand_from import" -F
complete -c dreamlock -n "__fish_seen_subcommand_from keyring" -a "status"

# help completions
complete -c dreamlock -n "__fish_seen_subcommand_from help" -a "$commands"

# completion completions
complete -c dreamlock -n "__fish_seen_subcommand_from completion" -a "bash zsh fish"
`
